package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rateshttp "exchange-rates/internal/api/http/rates"
	"exchange-rates/internal/logger"
	"exchange-rates/internal/postgresql"
	"exchange-rates/internal/requestlog"
	"exchange-rates/pkg/exchangerate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	if len(args) == 0 {
		return errors.New(usage)
	}
	name, args := args[0], args[1:]

	opts := []exchangerate.Option{
		exchangerate.WithBaseURL(cfg.BaseURL),
		exchangerate.WithAPIKey(cfg.APIKey),
		exchangerate.WithLogger(log),
	}

	if cfg.DatabaseURL != "" {
		pool, err := openRequestLog(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		storage := postgresql.NewRequestLogStorage(pool)
		opts = append(opts, exchangerate.WithRequestLogger(requestlog.New(storage)))
	}

	builder := exchangerate.NewRequestBuilder(&http.Client{Timeout: cfg.HTTPTimeout}, opts...)
	client := exchangerate.New(builder)

	if name == "serve" {
		return serve(ctx, cfg, client, log)
	}

	cmd, err := parseCommand(name, args)
	if err != nil {
		return err
	}
	job := func(ctx context.Context) error { return cmd.run(ctx, client, stdout) }

	if !cmd.watch {
		return job(ctx)
	}
	return watch(ctx, cfg, log, job)
}

func openRequestLog(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(dbCtx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := postgresql.NewMigrations(pool).Setup(dbCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure tables: %w", err)
	}
	return pool, nil
}

// serve runs the HTTP API and, on CRON_SPEC, a provider check. Either one
// failing stops both.
func serve(ctx context.Context, cfg Config, client *exchangerate.Client, log logrus.FieldLogger) error {
	mux := http.NewServeMux()
	rateshttp.New(client, log).Register(mux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(gctx, ":"+cfg.HTTPPort, mux, log)
	})
	g.Go(func() error {
		return watch(gctx, cfg, log, checkProvider(client, log))
	})
	return g.Wait()
}

// checkProvider lists the provider's currencies and logs how many came back.
func checkProvider(client *exchangerate.Client, log logrus.FieldLogger) func(context.Context) error {
	return func(ctx context.Context) error {
		codes, err := client.Currencies(ctx, nil)
		if err != nil {
			return fmt.Errorf("provider check: %w", err)
		}
		log.WithField("currencies", len(codes)).Info("provider check ok")
		return nil
	}
}

// watch runs job once, then on every tick of cfg.CronSpec until ctx is done.
func watch(ctx context.Context, cfg Config, log logrus.FieldLogger, job func(context.Context) error) error {
	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return fmt.Errorf("load location %s: %w", cfg.Location, err)
	}
	scheduler := cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
	)

	_, err = scheduler.AddFunc(cfg.CronSpec, func() {
		if err := job(ctx); err != nil {
			log.WithError(err).Error("scheduled run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("add cron func: %w", err)
	}

	if err := job(ctx); err != nil {
		log.WithError(err).Error("initial run failed")
	}
	log.WithField("spec", cfg.CronSpec).Info("watching, stop with Ctrl+C / SIGTERM")
	return runCron(ctx, scheduler)
}

func runCron(ctx context.Context, c *cron.Cron) error {
	c.Start()
	defer func() {
		stopCtx := c.Stop()
		<-stopCtx.Done()
	}()

	<-ctx.Done()
	return nil
}

func serveHTTP(ctx context.Context, addr string, h http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.WithField("addr", addr).Info("HTTP listening")
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
