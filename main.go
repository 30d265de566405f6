package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"warbler/database"
	"warbler/handlers"
	"warbler/logger"
	"warbler/repositories"
	"warbler/routes"
	"warbler/session"
	"warbler/templates"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables.")
	}

	logger.InitLogger()

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		logrus.Fatal("SECRET_KEY must be set")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "./warbler.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	renderer, err := templates.New()
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse templates")
	}

	secure := os.Getenv("ENVIRONMENT") == "production"
	sessions := session.NewStore([]byte(secret), secure)

	userRepo := repositories.NewUserRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	handler := handlers.NewHandler(userRepo, messageRepo, sessions, renderer)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      routes.Setup(handler, []byte(secret), secure),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithField("port", port).Info("Server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
