package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/timelessthreads/storefront/api"
	"github.com/timelessthreads/storefront/config"
	"github.com/timelessthreads/storefront/notify"
	"github.com/timelessthreads/storefront/otp"
	"github.com/timelessthreads/storefront/session"
	"github.com/timelessthreads/storefront/store"
	"github.com/timelessthreads/storefront/utils"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitLogger(config.Environment, config.LogLevel)
	defer utils.SyncLogger()

	if err := utils.ConnectMongo(config.MongoURI); err != nil {
		utils.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	db := utils.Client.Database(config.MongoDB)

	var sessions session.Store
	if config.RedisURL != "" {
		redisStore, err := session.NewRedisStore(config.RedisURL, config.SessionTTLHours)
		if err != nil {
			utils.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		sessions = redisStore
		utils.Info("Sessions backed by Redis")
	} else {
		sessions = session.NewMemoryStore(config.SessionTTLHours)
		utils.Info("Sessions held in process memory")
	}

	var sender notify.Sender
	switch config.EmailProvider {
	case "sendgrid":
		sender = notify.NewSendGridSender(config.SendGridAPIKey, config.FromName, config.FromEmail)
	case "smtp":
		sender = notify.NewSMTPSender(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword, config.FromEmail)
	default:
		sender = notify.NewLogSender()
	}
	utils.Info("OTP delivery configured", zap.String("provider", config.EmailProvider))

	handler := api.NewHandler(
		store.NewMongoUserStore(db),
		store.NewMongoProductStore(db),
		store.NewMongoReviewStore(db),
		otp.NewStore(time.Duration(config.OTPTTLSeconds)*time.Second),
		sessions,
		sender,
	)

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: api.NewRouter(handler),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.Info("Server listening", zap.String("port", config.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	utils.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("Forced shutdown", zap.Error(err))
	}
	if err := utils.Client.Disconnect(shutdownCtx); err != nil {
		utils.Error("Failed to disconnect MongoDB", zap.Error(err))
	}
}
