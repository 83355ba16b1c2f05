// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/monorec/config"
	"github.com/ariebrainware/monorec/endpoint"
	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	root := &cobra.Command{
		Use:          "monorec",
		Short:        "Medical records service for doctors, patients and visits",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration, sets up logging and opens a migrated database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.LoadConfig()
	util.InitLogger(cfg.AppEnv)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := model.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return cfg, db, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed the roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := bootstrap(); err != nil {
				return err
			}
			l := util.Logger()
			l.Info().Msg("migration complete")
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			l := util.Logger()

			if cfg.JWTSecret == "" {
				return errors.New("JWTSECRET must be set")
			}
			util.SetJWTSecret(cfg.JWTSecret)

			if _, err := config.ConnectRedis(); err != nil {
				l.Warn().Err(err).Msg("redis unavailable, sessions and rate limits use the database only")
			}

			if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
				l.Warn().Err(err).Str("path", cfg.GeoIPDBPath).Msg("geoip lookups disabled")
			}
			defer util.CloseGeoIP()

			util.SetSecurityLoggerDB(db)

			gin.SetMode(cfg.GinMode)
			router, err := endpoint.NewRouter(db, cfg)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.AppPort),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				l.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("starting server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("error starting server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			hits, misses, size := util.GetGeoIPCacheMetrics()
			l.Info().Int64("geoip_cache_hits", hits).Int64("geoip_cache_misses", misses).Int("geoip_cache_size", size).Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}
