package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nordclean/internal/config"
	"nordclean/internal/notify"
	"nordclean/internal/server"
	"nordclean/internal/session"
	"nordclean/internal/storage/redis"
	"nordclean/internal/submission"
	"nordclean/pkg/logger"
	redisclient "nordclean/pkg/redis"
	"nordclean/pkg/web3forms"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator page and API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(
			context.Background(),
			os.Interrupt,
			syscall.SIGTERM,
		)
		defer cancel()

		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient := redisclient.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	if err := redisClient.Connect(ctx, cfg.HTTPRequestTimeout, zapLogger); err != nil {
		return err
	}

	sessions := session.New(redis.New(redisClient.Redis(), cfg.SessionTTL), zapLogger)
	limiter := redis.NewRateLimiter(redisClient.Redis(), cfg.SubmitRateLimit, cfg.SubmitRateWindow)

	var notifier submission.LeadNotifier
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChannelID, zapLogger)
		if err != nil {
			zapLogger.Error("Failed to init Telegram notifier", zap.Error(err))
		} else {
			notifier = tg
		}
	} else {
		zapLogger.Warn("Lead notifications disabled - no Telegram channel configured")
	}

	formClient := web3forms.NewClient(cfg.Web3FormsURL, cfg.HTTPRequestTimeout, cfg.RelayMaxElapsed, zapLogger)
	relay := submission.NewRelay(cfg.Web3FormsAccessKey, sessions, formClient, notifier, zapLogger)
	defer relay.Wait()

	srv, err := server.New(server.Options{
		Addr:            cfg.HTTPAddr,
		SessionTTL:      cfg.SessionTTL,
		HCaptchaSiteKey: cfg.HCaptchaSiteKey,
		Ready: func(ctx context.Context) error {
			return redisClient.Redis().Ping(ctx).Err()
		},
	}, sessions, relay, limiter, zapLogger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("Server stopped with error", zap.Error(err))
		return err
	}

	zapLogger.Info("Server shutdown gracefully")
	return nil
}
