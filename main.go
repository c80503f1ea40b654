package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chxlky/canvas-trello-sync/api"
	"github.com/chxlky/canvas-trello-sync/database"
	"github.com/chxlky/canvas-trello-sync/integrations"
	"github.com/chxlky/canvas-trello-sync/internal/bootstrap"
	"github.com/chxlky/canvas-trello-sync/internal/config"
	"github.com/chxlky/canvas-trello-sync/internal/logger"
	"github.com/chxlky/canvas-trello-sync/internal/metrics"
	"github.com/chxlky/canvas-trello-sync/internal/session"
	"github.com/chxlky/canvas-trello-sync/internal/todosync"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	canvasClient := integrations.NewCanvasClient(cfg.Canvas.BaseURL, cfg.Canvas.Token)
	trelloClient := integrations.NewTrelloClient(cfg.Trello.BaseURL, cfg.Trello.APIKey, cfg.Trello.APIToken)

	var calClient *integrations.CalendarClient
	if cfg.Calendar.Enabled() {
		calClient, err = integrations.NewCalendarClient(ctx, cfg.Calendar.ServiceAccountJSON, cfg.Calendar.CalendarID)
		if err != nil {
			zap.L().Fatal("Failed to initialise Google Calendar client", zap.Error(err))
		}
		zap.L().Info("Successfully authenticated with Google Calendar API.")
	}

	zap.L().Info("Getting Trello information...", zap.String("board", cfg.Trello.BoardName))
	board, err := trelloClient.GetBoard(ctx, cfg.Trello.BoardName)
	if err != nil {
		zap.L().Fatal("Failed to fetch Trello boards", zap.Error(err))
	}
	if board == nil {
		zap.L().Fatal("Trello board not found", zap.String("board", cfg.Trello.BoardName))
	}

	state := session.New(*board, cfg.Server.PublicIP, cfg.Server.Port)
	m := metrics.New()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(&api.Handler{State: state, Metrics: m}, log)

	srv := &bootstrap.Server{
		Handler:      router,
		State:        state,
		Registrar:    trelloClient,
		CallbackPath: api.TodoBoardCallbackPath,
		Deregister:   cfg.Trello.DeregisterOnExit,
	}

	if cfg.Sync.OnStartup {
		db, err := database.Init("canvas-trello-sync")
		if err != nil {
			zap.L().Fatal("Failed to initialise database", zap.Error(err))
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		syncer := &todosync.Syncer{
			Canvas:   canvasClient,
			Trello:   trelloClient,
			Store:    &database.AssignmentStore{DB: db},
			Board:    state,
			ListName: cfg.Sync.ListName,
		}
		if calClient != nil {
			syncer.Calendar = calClient
		}

		srv.OnReady = func(ctx context.Context) error {
			n, err := syncer.Sync(ctx)
			m.SyncedCards.Add(float64(n))
			zap.L().Info("Canvas assignments synced", zap.Int("cardsCreated", n))
			return err
		}
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		zap.L().Info("Shutdown signal received", zap.String("signal", sig.String()))
		cancel()

		// if a second signal is caught, exit immediately
		<-sigCh
		zap.L().Info("Second interrupt signal received. Exiting immediately.")
		os.Exit(1)
	}()

	go func() {
		// Enter on the terminal also stops the server; a closed stdin is ignored.
		if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err == nil {
			zap.L().Info("Enter pressed")
			cancel()
		}
	}()

	if err := srv.Run(ctx); err != nil {
		zap.L().Fatal("Server stopped with error", zap.Error(err))
	}

	zap.L().Info("Exiting...")
}
