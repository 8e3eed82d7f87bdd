// Command raymarch opens a window and ray-marches a signed distance field
// scene on the GPU: a compute pass renders into a storage texture, which is
// copied to a sampled texture and drawn as a full-screen quad.
//
// Usage:
//
//	raymarch [-width 1280] [-height 720] [-extent WxH] [-shader scene.wgsl]
//	         [-metrics :9090] [-otlp localhost:4317] [-dump frame.bmp]
//	         [-headless [-frames N]] [-v]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/raymarch"
	"github.com/gogpu/raymarch/capture"
	"github.com/gogpu/raymarch/internal/platform"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "raymarch:", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel()}))
	slog.SetDefault(logger)
	raymarch.SetLogger(logger)

	if err := run(cfg); err != nil {
		logger.Error("raymarch: exiting", "error", err)
		os.Exit(1)
	}
}

func run(cfg config) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	defer func() {
		cancel()
		err = errors.Join(err, g.Wait())
	}()

	opts := []raymarch.Option{raymarch.WithExtent(cfg.extentW, cfg.extentH)}

	if cfg.shader != "" {
		src, err := os.ReadFile(cfg.shader)
		if err != nil {
			return fmt.Errorf("read shader: %w", err)
		}
		opts = append(opts, raymarch.WithShaderSource(string(src)))
	}

	if cfg.metricsAddr != "" {
		reg := newMetricsRegistry()
		m, err := capture.NewMetrics(reg)
		if err != nil {
			return err
		}
		opts = append(opts, raymarch.WithCapturer(m))
		serveMetrics(gctx, g, cfg.metricsAddr, reg)
	}

	if cfg.otlpEndpoint != "" {
		shutdown, terr := setupTracing(ctx, cfg.otlpEndpoint)
		if terr != nil {
			return terr
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = errors.Join(err, shutdown(shutdownCtx))
		}()
		opts = append(opts, raymarch.WithCapturer(capture.NewTracer(nil)))
	}

	var dumper *capture.Dumper
	if cfg.dumpPath != "" {
		dumper = capture.NewDumper(cfg.dumpPath, 1)
		opts = append(opts, raymarch.WithCapturer(dumper))
	}

	if cfg.headless {
		return runHeadless(gctx, cfg, dumper, opts)
	}
	return runWindow(ctx, cfg, dumper, opts)
}

func runWindow(ctx context.Context, cfg config, dumper *capture.Dumper, opts []raymarch.Option) error {
	win, err := platform.Open(platform.Config{
		Title:  raymarch.Title,
		Width:  cfg.width,
		Height: cfg.height,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := raymarch.New(win, opts...)
	if err != nil {
		return err
	}
	defer r.Close()
	if dumper != nil {
		dumper.Attach(r)
	}
	slog.Info("raymarch: window open", "adapter", r.AdapterName(), "format", r.SurfaceFormat())

	app := raymarch.NewApplication(r, win.RequestRedraw)
	win.Run(ctx, app)
	return app.Err()
}

func runHeadless(ctx context.Context, cfg config, dumper *capture.Dumper, opts []raymarch.Option) error {
	r, err := raymarch.NewHeadless(opts...)
	if err != nil {
		return err
	}
	defer r.Close()
	if dumper != nil {
		dumper.Attach(r)
	}

	start := time.Now()
	for i := 0; i < cfg.frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Render(); err != nil {
			return err
		}
	}
	slog.Info("raymarch: headless run done",
		"adapter", r.AdapterName(),
		"frames", r.Frames(),
		"elapsed", time.Since(start))

	if dumper != nil {
		return dumper.Err()
	}
	return nil
}
