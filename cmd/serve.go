package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/controllers"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
	"github.com/princinho/portfoliobackend/web"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, port string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}
	if port == "" {
		port = cfg.Port
	}

	created, err := a.credentials.BootstrapDefault(ctx, cfg.AdminEmail, cfg.AdminPassword)
	switch {
	case errors.Is(err, services.ErrMissingBootstrapCredentials):
		a.log.Warn("no administrators exist and ADMIN_EMAIL/ADMIN_PASSWORD are unset")
	case err != nil:
		return err
	case created:
		a.log.Info("default administrator created", "email", services.NormalizeEmail(cfg.AdminEmail))
	}

	sessions, err := services.NewSessionIssuer(cfg.JWTSecret, cfg.JWTExpire)
	if err != nil {
		return err
	}
	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	deps := controllers.Deps{
		Sessions:         sessions,
		Credentials:      a.credentials,
		Content:          a.content,
		Inbox:            a.inbox,
		Transfer:         a.transfer,
		Store:            store,
		Images:           utils.NewImageValidator(cfg.MaxUploadSizeMB),
		Logger:           a.log,
		AllowedOrigins:   cfg.AllowedOrigins,
		ContactRateLimit: cfg.ContactRateLimit,
		LoginRateLimit:   cfg.LoginRateLimit,
		Console:          web.Console(),
	}
	if _, ok := store.(*utils.LocalStore); ok {
		deps.UploadDir = cfg.UploadDir
	}
	router := controllers.NewRouter(deps)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", "addr", srv.Addr, "storage", cfg.StorageDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
