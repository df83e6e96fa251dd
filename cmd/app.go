package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/princinho/portfoliobackend/config"
	"github.com/princinho/portfoliobackend/database"
	"github.com/princinho/portfoliobackend/repository"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
)

// app wires configuration, storage and services for every command.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	store  *repository.Store
	closer func(context.Context) error

	credentials *services.Credentials
	content     *services.Content
	inbox       *services.Inbox
	transfer    *services.Transfer
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, log: logger, closer: func(context.Context) error { return nil }}
	if cfg.UseMemory() {
		logger.Warn("using in-memory store, data is lost on exit")
		a.store = repository.NewMemoryStore()
	} else {
		db, disconnect, err := database.OpenDatabase(ctx, cfg.MongoURI, cfg.DatabaseName)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			_ = disconnect(ctx)
			return nil, err
		}
		logger.Info("connected to mongodb", "database", cfg.DatabaseName)
		a.store = repository.NewMongoStore(db)
		a.closer = disconnect
	}

	var mailer utils.Mailer = utils.NoopMailer{}
	smtp := utils.SMTPConfig{Host: cfg.EmailHost, Port: cfg.EmailPort, Username: cfg.EmailUser, Password: cfg.EmailPass}
	if smtp.Configured() {
		mailer = utils.NewSMTPMailer(smtp)
	}
	notifyTo := cfg.ContactNotifyTo
	if notifyTo == "" && smtp.Configured() {
		notifyTo = cfg.EmailUser
	}

	a.credentials = services.NewCredentials(a.store.Admins)
	a.content = services.NewContent(a.store.Portfolio)
	a.inbox = services.NewInbox(a.store.Messages, mailer, notifyTo, logger)
	a.transfer = services.NewTransfer(a.content, a.inbox, a.credentials)
	return a, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.closer(ctx); err != nil {
		a.log.Warn("disconnect", "error", err)
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config) (utils.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "gcs":
		return utils.NewGCSStore(ctx, cfg.GCSBucket, cfg.CredentialsFile)
	case "r2":
		return utils.NewR2Store(ctx, utils.R2Config{
			Bucket:       cfg.R2Bucket,
			AccessKey:    cfg.R2AccessKeyID,
			SecretKey:    cfg.R2SecretAccessKey,
			Endpoint:     cfg.R2Endpoint,
			PublicDomain: cfg.R2PublicDomain,
		})
	default:
		return utils.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	}
}
