package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"printd/internal/config"
	"printd/internal/httpapi"
	"printd/internal/imaging"
	"printd/internal/jobs"
	"printd/internal/printer"
	"printd/internal/printqueue"
)

var (
	shutdownTimeout = 10 * time.Second
	drainTimeout    = 30 * time.Second
)

// errNotDrained is returned by run when jobs were still queued or printing
// at the end of the drain timeout.
var errNotDrained = errors.New("queue not drained")

func serve(ctx context.Context, configPath string, logOut io.Writer) error {
	cfg, err := config.Resolve(configPath, os.LookupEnv)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := newLogger(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, cfg, log, nil)
}

// run wires the queue, printer and HTTP server and blocks until ctx is
// done. If ready is non-nil it receives the bound address once listening.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger, ready chan<- string) error {
	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxUploadBytes(cfg.HTTP.MaxUploadBytes)
	httpapi.SetWaitTimeout(cfg.HTTP.WaitTimeout())
	httpapi.SetCORSOptions(cfg.HTTP.CORS.Enabled, cfg.HTTP.CORS.Origins, cfg.HTTP.CORS.Methods, cfg.HTTP.CORS.Headers)

	if cfg.Printer.LockFile != "" {
		lock, err := printer.LockDevice(cfg.Printer.LockFile)
		if err != nil {
			return err
		}
		defer func() { _ = lock.Unlock() }()
		log.Debug().Str("lock", lock.Path()).Msg("device lock held")
	}

	prn, err := printer.New(printer.Options{
		Driver:        cfg.Printer.Driver,
		Address:       cfg.Printer.Address,
		Timeout:       cfg.Printer.Timeout(),
		SpoolDir:      cfg.Printer.SpoolDir,
		Delay:         cfg.Printer.SimulateDelay(),
		LabelWidthMM:  cfg.Printer.LabelWidthMM,
		LabelHeightMM: cfg.Printer.LabelHeightMM,
		GapMM:         cfg.Printer.GapMM,
		DPI:           cfg.Printer.DPI,
	})
	if err != nil {
		return fmt.Errorf("printer: %w", err)
	}

	q := printqueue.NewWithConfig(printqueue.Config{
		Cooldown:    cfg.Queue.Cooldown(),
		StartPaused: cfg.Queue.StartPaused,
		Logger:      &log,
		Events:      printqueue.NewLogPublisher(log),
	})
	// Device I/O outlives the signal so the drain below can finish jobs.
	jobsCtx, cancelJobs := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelJobs()
	producer := jobs.NewProducer(jobsCtx, prn, imaging.Options{
		Width:          cfg.Printer.Width,
		MaxHeight:      cfg.Printer.MaxHeight,
		Threshold:      uint8(cfg.Printer.Threshold),
		MaxInputPixels: cfg.Printer.MaxInputPixels,
	}, log)
	svc := jobs.NewService(q, producer)

	ln, err := listen(cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Str("printer", prn.Name()).Msg("printd listening")
		if ready != nil {
			ready <- ln.Addr().String()
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("graceful shutdown error")
		}

		drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
		defer cancelDrain()
		var drainErr error
		if err := q.WaitIdle(drainCtx); err != nil {
			st := q.Status()
			log.Warn().Int("queued", st.QueueLength).Bool("printing", st.IsPrinting).Msg("stopped before queue drained")
			drainErr = fmt.Errorf("%w: %d queued, printing=%t", errNotDrained, st.QueueLength, st.IsPrinting)
		}
		cancelJobs()
		log.Info().Msg("printd stopped")
		return drainErr
	})
	return g.Wait()
}

func listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
