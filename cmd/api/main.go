package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/voter-api/internal/application/student"
	"github.com/voter-api/internal/config"
	badgerinfra "github.com/voter-api/internal/infrastructure/badger"
	"github.com/voter-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/voter-api/internal/infrastructure/jwt"
	"github.com/voter-api/internal/infrastructure/smtp"
	"github.com/voter-api/internal/logging"
	transporthttp "github.com/voter-api/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stdout})
	if envErr != nil {
		logger.Info("no .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		logger.Error("jwt provider unavailable", "err", err)
		os.Exit(1)
	}

	var loginCodes student.CodeStore
	switch cfg.LoginCodeStore {
	case "badger":
		db, err := badgerinfra.Open(cfg.BadgerPath)
		if err != nil {
			logger.Error("open badger", "path", cfg.BadgerPath, "err", err)
			os.Exit(1)
		}
		defer db.Close()
		loginCodes = badgerinfra.NewLoginCodeStore(db)
	default:
		loginCodes = dynamo.NewLoginCodeRepo(dynamoClient, cfg.DynamoTables.LoginCodes)
	}

	deps := &transporthttp.Deps{
		UserRepo:        dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SessionRepo:     dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		CandidateRepo:   dynamo.NewCandidateRepo(dynamoClient, cfg.DynamoTables.Candidates),
		VoteRepo:        dynamo.NewVoteRepo(dynamoClient, cfg.DynamoTables.Votes),
		StudentRepo:     dynamo.NewStudentRepo(dynamoClient, cfg.DynamoTables.Students),
		StudentVoteRepo: dynamo.NewStudentVoteRepo(dynamoClient, cfg.DynamoTables.StudentVotes),
		LoginCodes:      loginCodes,
		Mailer:          smtp.NewMailer(cfg),
		JWTProvider:     jwtProvider,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "login_code_store", cfg.LoginCodeStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			slog.Error("server error", "err", err)
			stop()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
		return
	}
	logger.Info("server stopped")
}
