// Package geoip resolves an IP address to a coarse location. Lookup
// failures never surface to callers: the resolver degrades to a sentinel
// location so a slow or dead provider cannot fail an auth request.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sentraid/riskauth/internal/entity"
)

var (
	// LocalLocation is returned for loopback and private addresses
	// without touching the network.
	LocalLocation = entity.Location{Country: "Local", City: "Development", Region: "Dev"}

	// UnknownLocation is the degradation sentinel for any lookup failure.
	UnknownLocation = entity.Location{Country: "Unknown", City: "Unknown", Region: "Unknown"}
)

type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	return &Client{
		client:  retryClient.StandardClient(),
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

type lookupResponse struct {
	CountryName string `json:"country_name"`
	City        string `json:"city"`
	Region      string `json:"region"`
}

func (c *Client) Resolve(ctx context.Context, ipAddress string) entity.Location {
	if isLocalAddress(ipAddress) {
		return LocalLocation
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/json/", c.baseURL, ipAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.WarnContext(ctx, "geoip request build failed", "ip", ipAddress, "error", err)
		return UnknownLocation
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "geoip lookup failed", "ip", ipAddress, "error", err)
		return UnknownLocation
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "geoip lookup non-200", "ip", ipAddress, "status", resp.StatusCode)
		return UnknownLocation
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.WarnContext(ctx, "geoip read body failed", "ip", ipAddress, "error", err)
		return UnknownLocation
	}

	var lookup lookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		slog.WarnContext(ctx, "geoip decode failed", "ip", ipAddress, "error", err)
		return UnknownLocation
	}

	return entity.Location{
		Country: orUnknown(lookup.CountryName),
		City:    orUnknown(lookup.City),
		Region:  orUnknown(lookup.Region),
	}
}

func isLocalAddress(ipAddress string) bool {
	if ipAddress == "" || ipAddress == "localhost" {
		return true
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return false
	}

	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}

	return s
}
