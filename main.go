package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/framewatch/framewatch/capture"
	"github.com/framewatch/framewatch/config"
	"github.com/framewatch/framewatch/logging"
	"github.com/framewatch/framewatch/notify"
	"github.com/framewatch/framewatch/schedule"
	"github.com/framewatch/framewatch/status"
	"github.com/framewatch/framewatch/vision"
	"github.com/framewatch/framewatch/watcher"
)

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Run without sending notifications (no credentials needed)")

	// Config override flags
	cameraDevice := flag.String("camera-device", "", "Camera device path or index (overrides config)")
	minContourArea := flag.Float64("min-contour-area", 0, "Minimum contour area for motion detection (overrides config)")
	sendIntervalSeconds := flag.Int("send-interval-seconds", -1, "Minimum seconds between motion sends (overrides config)")
	dailyHour := flag.Int("daily-hour", -1, "Hour of the daily snapshot (overrides config)")
	dailyMinute := flag.Int("daily-minute", -1, "Minute of the daily snapshot (overrides config)")
	pollIntervalMs := flag.Int("poll-interval-ms", 0, "Pause between analyzed frames in milliseconds (overrides config)")
	warmUpFrames := flag.Int("warm-up-frames", -1, "Background model warm-up frame count (overrides config)")
	statusAddr := flag.String("status-addr", "", "Status server listen address (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Apply CLI overrides if provided
	cfg.Override(config.ConfigOverrides{
		CameraDevice:        cameraDevice,
		MinContourArea:      minContourArea,
		SendIntervalSeconds: sendIntervalSeconds,
		DailyHour:           dailyHour,
		DailyMinute:         dailyMinute,
		PollIntervalMs:      pollIntervalMs,
		WarmUpFrames:        warmUpFrames,
		StatusAddr:          statusAddr,
		LogLevel:            logLevel,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Credentials and notifier. In dry-run mode everything runs but
	// nothing is sent, so no credentials are required.
	var notifier notify.Notifier
	var logger logging.Logger
	if *dryRun {
		logger = logging.CreateLogger(logging.LogLevel(cfg.LogLevel))
		logger.Info("Running in dry-run mode, notifications are discarded.")
		notifier = notify.NopNotifier
	} else {
		secrets, err := config.LoadSecrets()
		if err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}

		// The token must never appear in log output, not even inside
		// transport errors.
		logger = logging.CreateLogger(logging.LogLevel(cfg.LogLevel),
			secrets.TelegramToken, strconv.FormatInt(secrets.TelegramChatID, 10))

		notifier, err = notify.NewTelegramNotifier(secrets.TelegramToken, secrets.TelegramChatID)
		if err != nil {
			logger.Error("Failed to set up the Telegram notifier.", "error", err.Error())
			log.Fatal("Notifier setup failed")
		}
	}

	logger.Info("Configuration loaded.",
		"camera_device", cfg.CameraDevice,
		"min_contour_area", cfg.MinContourArea,
		"send_interval_seconds", cfg.SendIntervalSeconds,
		"daily_at", fmt.Sprintf("%02d:%02d", cfg.DailyHour, cfg.DailyMinute),
		"poll_interval_ms", cfg.PollIntervalMs)

	// A camera that cannot be opened at startup is a fatal
	// misconfiguration, unlike transient read failures later on.
	source, err := capture.OpenWebcam(cfg.CameraDevice)
	if err != nil {
		logger.Error("Failed to open the camera.", "device", cfg.CameraDevice, "error", err.Error())
		log.Fatal("Camera setup failed")
	}
	defer source.Close()

	w := watcher.New(watcher.Settings{
		Pipeline: vision.PipelineSettings{
			MinContourArea:  cfg.MinContourArea,
			WarmUpFrames:    cfg.WarmUpFrames,
			MogHistory:      cfg.MogHistory,
			MogVarThreshold: cfg.MogVarThreshold,
		},
		Schedule:     schedule.Schedule{Hour: cfg.DailyHour, Minute: cfg.DailyMinute},
		SendInterval: time.Duration(cfg.SendIntervalSeconds) * time.Second,
		PollInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
	}, source, notifier, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(ctx)
	})
	if cfg.StatusAddr != "" {
		statusServer := status.NewServer(cfg.StatusAddr, w, logger)
		g.Go(func() error {
			return statusServer.Run(ctx)
		})
	}

	logger.Info("Motion watcher started.")
	if err := g.Wait(); err != nil {
		logger.Error("Watcher stopped with an error.", "error", err.Error())
		log.Fatal("Watcher failed")
	}

	logger.Info("Motion watcher stopped.")
}
