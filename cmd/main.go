package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sentraid/riskauth/internal/api"
	"github.com/sentraid/riskauth/internal/clients/geoip"
	"github.com/sentraid/riskauth/internal/otp"
	"github.com/sentraid/riskauth/internal/repository"
	"github.com/sentraid/riskauth/internal/risk"
	"github.com/sentraid/riskauth/internal/service"
	"github.com/sentraid/riskauth/pkg/broker"
	"github.com/sentraid/riskauth/pkg/config"
	"github.com/sentraid/riskauth/pkg/logger"
	"github.com/sentraid/riskauth/pkg/postgres"
)

const (
	ReadTimeout       = 3 * time.Second
	WriteTimeout      = 5 * time.Second
	IdleTimeout       = 60 * time.Second
	ReadHeaderTimeout = 1 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	pool, err := postgres.ConnectToPostgres(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
	panicOnErr("connect to postgres", err)

	defer pool.Close()

	err = postgres.UpMigrations(cfg.PostgresDSN)
	panicOnErr("up migrations", err)

	accountRepo := repository.NewAccountRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	otpRepo := repository.NewOTPRepository(pool)

	geoClient := geoip.NewClient(cfg.GeoIP.BaseURL, cfg.GeoIP.Timeout)
	engine := risk.NewEngine(attemptRepo, geoClient, cfg.Risk.FrequencyWindow, cfg.Risk.FailureWindow)
	challenges := otp.NewManager(otpRepo, cfg.OTP.CodeTTL)

	producer := broker.NewProducer(l, cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	s := service.NewService(cfg, accountRepo, attemptRepo, engine, challenges, producer)

	h := api.NewHandler(s)
	mw := api.NewMiddleware(cfg.RequestsPerMinute)
	router := api.NewRouter(h, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		l.Info("http server started", "port", cfg.HTTPPort)

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}

		l.Debug("http server stopped")
	}()

	waitSignal(l, cancel, server)
	wg.Wait()
}

func waitSignal(l *slog.Logger, cancel context.CancelFunc, server *http.Server) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	sig := <-ch

	l.Info("got OS signal", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		l.Error("server shutdown", "error", err)
	}
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
