package entity

import (
	"context"
)

type (
	CtxKeyIP        struct{}
	CtxKeyDeviceID  struct{}
	CtxKeyUserAgent struct{}
)

func IPFromCtx(ctx context.Context) string {
	ip, ok := ctx.Value(CtxKeyIP{}).(string)
	if !ok {
		return ""
	}

	return ip
}

func DeviceIDFromCtx(ctx context.Context) string {
	deviceID, ok := ctx.Value(CtxKeyDeviceID{}).(string)
	if !ok {
		return ""
	}

	return deviceID
}

func UserAgentFromCtx(ctx context.Context) string {
	ua, ok := ctx.Value(CtxKeyUserAgent{}).(string)
	if !ok {
		return ""
	}

	return ua
}
