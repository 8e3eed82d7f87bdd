package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gogpu/raymarch"
)

type config struct {
	width, height    int
	extentW, extentH int
	shader           string
	metricsAddr      string
	otlpEndpoint     string
	dumpPath         string
	headless         bool
	frames           int
	verbose          bool
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	var (
		cfg    config
		extent string
	)
	fs := flag.NewFlagSet("raymarch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.width, "width", raymarch.DefaultWidth, "window width")
	fs.IntVar(&cfg.height, "height", raymarch.DefaultHeight, "window height")
	fs.StringVar(&extent, "extent", "", "compute output extent as WxH (default 1280x720)")
	fs.StringVar(&cfg.shader, "shader", "", "WGSL file replacing the built-in scene")
	fs.StringVar(&cfg.metricsAddr, "metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	fs.StringVar(&cfg.otlpEndpoint, "otlp", "", "export frame traces to this OTLP/gRPC endpoint, e.g. localhost:4317")
	fs.StringVar(&cfg.dumpPath, "dump", "", "write the first frame to this BMP file")
	fs.BoolVar(&cfg.headless, "headless", false, "render offscreen without a window, then exit")
	fs.IntVar(&cfg.frames, "frames", 1, "number of frames to render with -headless")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg.extentW, cfg.extentH = raymarch.DefaultWidth, raymarch.DefaultHeight
	if extent != "" {
		w, h, err := parseExtent(extent)
		if err != nil {
			return config{}, err
		}
		cfg.extentW, cfg.extentH = w, h
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return config{}, fmt.Errorf("window size %dx%d must be positive", cfg.width, cfg.height)
	}
	if cfg.frames < 1 {
		return config{}, errors.New("-frames must be at least 1")
	}
	return cfg, nil
}

// parseExtent parses "WxH".
func parseExtent(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("extent %q: want WxH", s)
	}
	width, err = strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("extent %q: %w", s, err)
	}
	height, err = strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("extent %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("extent %q: dimensions must be positive", s)
	}
	return width, height, nil
}

func (c config) logLevel() slog.Level {
	if c.verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
