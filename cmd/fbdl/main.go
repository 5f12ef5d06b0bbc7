package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/vm-affekt/fbdl/internal/config"
	"github.com/vm-affekt/fbdl/internal/dialogs"
	"github.com/vm-affekt/fbdl/internal/downloader"
	"github.com/vm-affekt/fbdl/internal/logging"
	"github.com/vm-affekt/fbdl/internal/rapidapi"
	"github.com/vm-affekt/fbdl/internal/stats"
	"github.com/vm-affekt/fbdl/internal/telegram"
	httptransport "github.com/vm-affekt/fbdl/internal/transport/http"
	"go.uber.org/zap"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load(config.DefaultPaths...)
	if err != nil {
		fmt.Printf("ERROR! %v\n", err)
		os.Exit(1)
	}

	var logCfg zap.Config
	if cfg.DebugMode() {
		logCfg = zap.NewDevelopmentConfig()
	} else {
		logCfg = zap.NewProductionConfig()
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.LogFilePath != "" {
		logCfg.OutputPaths = append(logCfg.OutputPaths, cfg.LogFilePath)
	} else {
		fmt.Println("[WARN] No LOG_FILE_PATH specified! Using 'stderr' only.")
	}
	logger, err := logCfg.Build()
	if err != nil {
		panic(err)
	}
	logging.SetLogger(logger)
	log := logger.Sugar()
	defer log.Sync()

	log.Infof("[FACEBOOK VIDEO LINK RELAY] Application is running. Environment mode=%q", cfg.Mode)
	if cfg.ConfigFileUsed != "" {
		log.Infof("Used config file path: %v", cfg.ConfigFileUsed)
	} else {
		log.Info("No config file found. Environment variables are used as config.")
	}

	apiClient, err := rapidapi.New(rapidapi.Options{
		APIKey:  cfg.RapidAPIKey,
		Host:    cfg.RapidAPIHost,
		URL:     cfg.RapidAPIURL,
		Timeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create extraction API client: %v", err)
	}
	downloadService := downloader.New(apiClient)

	handler := httptransport.NewHandler(downloadService, stats.NewRelay())
	srv := httptransport.NewServer(cfg.HTTPAddr, httptransport.NewRouter(handler), cfg.UpstreamTimeout)

	var msgProc *telegram.MsgProcessor
	if cfg.TelegramAPIKey != "" {
		container := dialogs.NewContainer(downloadService)
		msgProc = telegram.NewMsgProcessor(cfg.TelegramAPIKey, cfg.DebugMode(), container, cfg.UpstreamTimeout+cfg.ShutdownTimeout)
		if err := msgProc.StartLongPolling(cfg.TelegramLongPollingTimeout); err != nil {
			log.Fatalf("Failed to start long polling listener: %v", err)
		}
		log.Info("Long polling started. Bot is ready!")
	} else {
		log.Info("TELEGRAM_API_KEY is empty, Telegram bot is disabled.")
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Infof("HTTP server is listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	sigInt := make(chan os.Signal, 1)
	signal.Notify(sigInt, os.Interrupt, syscall.SIGTERM)
	select {
	case shutSig := <-sigInt:
		log.Infof("Signal received: %v. Shutdown server...", shutSig)
	case err := <-srvErr:
		log.Errorf("HTTP server failed: %v. Shutdown...", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	if msgProc != nil {
		if err := msgProc.Stop(ctx); err != nil {
			log.Errorf("Failed to stop Telegram bot: %v", err)
		}
	}
	log.Info("Shutdown work is over. Bye :-)")
}
