package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"campuslands/config"
	"campuslands/controllers"
	"campuslands/driver"
	"campuslands/logging"
	"campuslands/registration"
	"campuslands/validation"
)

type flags struct {
	envFile string
	port    int
	store   string
	dsn     string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "campuslands",
		Short:        "Campuslands camper registration API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), f)
		},
	}
	root.PersistentFlags().StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before the environment is parsed")
	root.PersistentFlags().StringVar(&f.store, "store", "", "store driver: memory, sqlite or mysql (overrides STORE_DRIVER)")
	root.PersistentFlags().StringVar(&f.dsn, "dsn", "", "database DSN (overrides DATABASE_DSN)")
	root.PersistentFlags().IntVar(&f.port, "port", 0, "listen port (overrides PORT)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the registration API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), f)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the SQL store",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := setup(f)
			if err != nil {
				return err
			}
			return driver.Migrate(cfg, log)
		},
	})
	return root
}

func setup(f *flags) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	if f.port != 0 {
		cfg.Port = f.port
	}
	if f.store != "" {
		cfg.StoreDriver = f.store
	}
	if f.dsn != "" {
		cfg.DatabaseDSN = f.dsn
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func serve(ctx context.Context, f *flags) error {
	cfg, log, err := setup(f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := driver.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := registration.NewEngine(store, validation.New(), log)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           controllers.NewRouter(engine, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Bienvenido al Sistema Campuslands!")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
