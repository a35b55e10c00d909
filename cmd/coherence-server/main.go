// Package main is the entry point for the coherence pipeline server: it
// reads line-delimited JSON samples from stdin (standing in for the
// out-of-scope BLE/sensor transport), fans each subject's stream through
// its own pipeline lane, and serves the live WebSocket broadcast, the
// recent-session lookup, and a Prometheus /metrics endpoint over HTTP.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vagus-labs/coherence-pipeline/internal/api"
	"github.com/vagus-labs/coherence-pipeline/internal/config"
	"github.com/vagus-labs/coherence-pipeline/internal/fleet"
	"github.com/vagus-labs/coherence-pipeline/internal/metrics"
	"github.com/vagus-labs/coherence-pipeline/internal/session"
	"github.com/vagus-labs/coherence-pipeline/pkg/types"
)

// stdinSample is the line-delimited JSON envelope read from stdin: one
// sample per line, tagged with the strap it came from so a single
// stream can multiplex an entire fleet. StrapID is resolved to a
// participant/subject ID via config.ServerConfig.DeviceRegistry before
// reaching the pool.
type stdinSample struct {
	StrapID string       `json:"strap"`
	Sample  types.Sample `json:"sample"`
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional; defaults and env vars apply otherwise)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := setupLogger(*logLevel)
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("starting coherence server",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("websocketPath", cfg.WebsocketPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	reg := metrics.New(registry)

	hub := api.NewHub(logger)
	recorder := session.NewRecorder(logger, session.DefaultRecentCapacity)
	sink := metrics.Wrap(reg, api.NewFanout(hub, recorder))

	pool := fleet.NewPool(logger, cfg.Pipeline.ToPipelineConfig(), sink)

	server := api.NewServer(logger, cfg, hub, recorder, registry)

	go func() {
		if err := server.Start(); err != nil && err != context.Canceled {
			logger.Error("server error", zap.Error(err))
		}
	}()

	go readSamples(ctx, logger, os.Stdin, pool, cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutdown signal received")

	cancel()
	pool.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", zap.Error(err))
	}

	logger.Info("coherence server stopped")
}

// readSamples decodes one stdinSample per line, resolves its strap ID to
// a participant via cfg.DeviceRegistry, and submits it to that subject's
// lane, until ctx is canceled or the stream ends.
func readSamples(ctx context.Context, logger *zap.Logger, r io.Reader, pool *fleet.Pool, cfg config.ServerConfig) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var in stdinSample
		if err := json.Unmarshal(line, &in); err != nil {
			logger.Warn("discarding malformed input line", zap.Error(err))
			continue
		}
		if in.StrapID == "" {
			logger.Warn("discarding sample with empty strap ID")
			continue
		}

		subject := cfg.ResolveSubject(in.StrapID)
		pool.SubjectInput(subject).Submit(in.Sample)
	}

	if err := scanner.Err(); err != nil {
		logger.Error("stdin scan error", zap.Error(err))
	}
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("building logger: %v", err))
	}
	return logger
}
