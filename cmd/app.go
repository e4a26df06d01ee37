package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/qrave1/MatchRoom/internal/application/config"
	"github.com/qrave1/MatchRoom/internal/application/constant"
	"github.com/qrave1/MatchRoom/internal/application/metric"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/memory"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/postgres"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/postgres/repository"
	"github.com/qrave1/MatchRoom/internal/infra/adapters/ws"
	"github.com/qrave1/MatchRoom/internal/infra/ports/http/handlers"
	"github.com/qrave1/MatchRoom/internal/infra/ports/http/server"
	"github.com/qrave1/MatchRoom/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: slog.LevelInfo},
			),
		),
	)

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		slog.Error("connect to postgres", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer dbConn.Close()

	userRepo := repository.NewUserRepo(dbConn)
	roomRepo := repository.NewRoomRepo(dbConn)
	wsConnRepo := memory.NewWSConnectionRepository()
	activeRoomRepo := memory.NewActiveRoomRepository()
	activeUserRepo := memory.NewActiveUserRepository()

	notifier := ws.NewNotifier(wsConnRepo, activeUserRepo)

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), userRepo, wsConnRepo)
	roomUsecase := usecase.NewRoomUsecase(roomRepo, activeRoomRepo, activeUserRepo, notifier)

	authHandler := handlers.NewAuthHandler(cfg, userUsecase)
	roomHandler := handlers.NewRoomHandler(roomUsecase)
	wsHandler := handlers.NewWebSocketHandler(cfg, roomUsecase, wsConnRepo)

	echoSrv := server.New(cfg, authHandler, roomHandler, wsHandler)

	metricsSrv := metric.NewServer()

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	go func() {
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricPort)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	case err := <-metricsSrvCh:
		slog.Error(
			"Metrics server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}
}
