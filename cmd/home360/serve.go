package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/devsanthoshmk/home360/internal/adapters/file"
	httpadapter "github.com/devsanthoshmk/home360/internal/adapters/http"
	"github.com/devsanthoshmk/home360/internal/adapters/redis"
	"github.com/devsanthoshmk/home360/internal/adapters/sqlite"
	"github.com/devsanthoshmk/home360/internal/config"
	"github.com/devsanthoshmk/home360/internal/logging"
	"github.com/devsanthoshmk/home360/internal/metrics"
	"github.com/devsanthoshmk/home360/pkg/adapters/memory"
	"github.com/devsanthoshmk/home360/pkg/ports"
	"github.com/devsanthoshmk/home360/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tour web server",
	Long: `Serves the tour over HTTP: the embedded panorama viewer, the JSON
navigation API, per-session event streams and Prometheus metrics.

Configuration comes from HOME360_* environment variables; flags override
individual settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.FromEnv()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("tour") || len(args) > 0 {
			cfg.TourPath = tourPath(cmd, args)
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.Addr = addr
		}
		if store, _ := cmd.Flags().GetString("store"); cmd.Flags().Changed("store") {
			cfg.Store = store
		}

		logger := newLogger(cfg)
		slog.SetDefault(logger)

		tour, err := config.LoadTour(cfg.TourPath)
		if err != nil {
			fmt.Printf("Error loading tour: %v\n", err)
			os.Exit(1)
		}
		reg, err := tour.BuildRegistry()
		if err != nil {
			fmt.Printf("Invalid tour: %v\n", err)
			os.Exit(1)
		}

		store, locker, closeStore, err := openStore(cfg)
		if err != nil {
			fmt.Printf("Error opening %s store: %v\n", cfg.Store, err)
			os.Exit(1)
		}
		if closeStore != nil {
			defer func() {
				if err := closeStore(); err != nil {
					logger.Warn("closing store", "err", err)
				}
			}()
		}

		sessionOpts := []session.Option{session.WithLogger(logger)}
		if locker != nil {
			sessionOpts = append(sessionOpts, session.WithLocker(locker))
		}
		sessions := session.NewManager(store, sessionOpts...)

		m := metrics.New()

		server := httpadapter.New(reg,
			httpadapter.TourInfo{Title: tour.Title, Description: tour.Description},
			sessions,
			httpadapter.WithLogger(logger),
			httpadapter.WithMetrics(m),
			httpadapter.WithHooks(m.Hooks()),
			httpadapter.WithCameraLimits(tour.Limits()),
			httpadapter.WithExitDuration(cfg.ExitDuration),
			httpadapter.WithLoadTimeout(cfg.LoadTimeout),
			httpadapter.WithIdleTimeout(cfg.IdleTimeout),
		)
		defer server.Close()

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting home360 on %s\n", srv.Addr)
			fmt.Printf("Serving tour: %s (%d scenes, %s store)\n", tour.Title, reg.Len(), cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("home360 stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides HOME360_ADDR)")
	serveCmd.Flags().String("store", "", "Session store: memory, file, redis or sqlite (overrides HOME360_STORE)")
}

func newLogger(cfg config.ServerConfig) *slog.Logger {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

// openStore builds the configured state store. The locker is non-nil only
// for backends that support distributed locking; the close func is non-nil
// for backends holding connections.
func openStore(cfg config.ServerConfig) (ports.StateStore, ports.DistributedLocker, func() error, error) {
	codec, err := cfg.StateCodec()
	if err != nil {
		return nil, nil, nil, err
	}

	switch cfg.Store {
	case "memory":
		return memory.NewStore(), nil, nil, nil

	case "file":
		return file.New(cfg.FilePath, file.WithCodec(codec)), nil, nil, nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := redis.NewFromClient(client, redis.WithTTL(cfg.SessionTTL), redis.WithCodec(codec))
		locker := redis.NewLocker(client, "home360:")
		return store, locker, store.Close, nil

	case "sqlite":
		store, err := sqlite.Open(cfg.SQLitePath, sqlite.WithCodec(codec))
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, store.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q (supported: memory, file, redis, sqlite)", cfg.Store)
	}
}
