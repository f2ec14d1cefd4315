package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ecommerce-api/config"
	"ecommerce-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := config.NewLogger(cfg.LogLevel)
		gin.SetMode(gin.ReleaseMode)

		db, err := config.Connection(cfg, log)
		if err != nil {
			return err
		}
		if autoMigrate {
			if err := config.Migrate(db); err != nil {
				return err
			}
			log.Info("tables created or already present")
		}
		rdb := config.InitRedis(cfg, log)
		if rdb != nil {
			defer rdb.Close()
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           routes.NewRouter(cfg, db, rdb, log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.WithField("addr", srv.Addr).Info("server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Create missing tables before serving")
}
