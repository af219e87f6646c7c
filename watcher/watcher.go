// Package watcher runs the motion-watch loop and the daily snapshot
// trigger concurrently, sharing one frame source and one notifier.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"github.com/framewatch/framewatch/capture"
	"github.com/framewatch/framewatch/dispatch"
	"github.com/framewatch/framewatch/logging"
	"github.com/framewatch/framewatch/notify"
	"github.com/framewatch/framewatch/schedule"
	"github.com/framewatch/framewatch/vision"
)

const defaultSourceBackoff = 500 * time.Millisecond

// Settings configures the watcher's two flows.
type Settings struct {
	Pipeline vision.PipelineSettings
	Schedule schedule.Schedule

	// SendInterval is the minimum spacing between snapshot dispatches
	// on the motion path, measured from the previous dispatch start.
	SendInterval time.Duration

	// PollInterval paces the analysis loop between frames.
	PollInterval time.Duration

	// SourceBackoff is how long the analysis loop waits after the
	// frame source reports it is temporarily unavailable.
	SourceBackoff time.Duration
}

// Watcher drives the analysis loop and the daily trigger over a shared
// frame source. The source is an exclusive resource: all reads go
// through a mutex so the two flows never interleave on the device.
type Watcher struct {
	settings Settings
	notifier notify.Notifier
	logger   logging.Logger
	trigger  *schedule.DailyTrigger
	stats    *stats

	sourceMu sync.Mutex
	source   capture.FrameSource

	pipeline *vision.Pipeline

	// lastSend is written only by the analysis loop, stamped at
	// dispatch initiation. The daily path never reads or writes it.
	lastSend time.Time
}

func New(settings Settings, source capture.FrameSource, notifier notify.Notifier, logger logging.Logger) *Watcher {
	if settings.SourceBackoff <= 0 {
		settings.SourceBackoff = defaultSourceBackoff
	}

	return &Watcher{
		settings: settings,
		source:   source,
		notifier: notifier,
		logger:   logger,
		trigger:  schedule.NewDailyTrigger(settings.Schedule, logger),
		pipeline: vision.NewPipeline(settings.Pipeline),
		stats:    newStats(),
	}
}

// Run blocks until ctx is cancelled or the analysis loop hits an
// unrecoverable fault. Cancellation is a clean stop and returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.pipeline.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.analysisLoop(ctx)
	})
	g.Go(func() error {
		return w.trigger.Run(ctx, w.dailySnapshot)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Status returns a snapshot of the watcher's counters.
func (w *Watcher) Status() Snapshot {
	return w.stats.snapshot(w.trigger.Next())
}

// analysisLoop pulls frames, scores them and dispatches a snapshot
// when motion clears the throttle. Transient source outages back off
// and retry; any other source failure is fatal.
func (w *Watcher) analysisLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, err := w.nextFrame()
		if err != nil {
			if errors.Is(err, capture.ErrUnavailable) {
				w.stats.recordSourceError()
				w.logger.Warn("Frame source unavailable, backing off.", "backoff", w.settings.SourceBackoff.String())
				if !sleepCtx(ctx, w.settings.SourceBackoff) {
					return ctx.Err()
				}
				continue
			}
			return fmt.Errorf("frame source failed: %w", err)
		}

		w.analyzeAndDispatch(frame)
		frame.Close()

		if !sleepCtx(ctx, w.settings.PollInterval) {
			return ctx.Err()
		}
	}
}

func (w *Watcher) analyzeAndDispatch(frame *capture.Frame) {
	verdict, err := w.pipeline.Analyze(frame)
	if err != nil {
		if errors.Is(err, vision.ErrDimensionMismatch) {
			w.stats.recordModelReset()
			w.logger.Warn("Frame dimensions changed, resetting background model.")
			w.pipeline.Reset()
			return
		}
		w.logger.Error("Frame analysis failed.", "error", err.Error())
		return
	}
	w.stats.recordFrame()

	if !verdict.Present {
		return
	}
	w.stats.recordMotion(verdict.LargestArea, frame.CapturedAt)
	w.logger.Debug("Motion detected.", "area", verdict.LargestArea)

	now := time.Now()
	if !dispatch.ShouldSend(true, w.lastSend, w.settings.SendInterval, now) {
		return
	}

	// Stamped before the send so a slow transport still holds the
	// spacing from this initiation, not from completion.
	w.lastSend = now
	caption := fmt.Sprintf("Motion detected! (%s)", now.Format("2006-01-02 15:04:05"))
	w.captureAndSend(caption, false)
}

// dailySnapshot is the trigger's fire callback. An unavailable source
// gets one immediate retry; a second failure skips this day's photo.
func (w *Watcher) dailySnapshot() {
	now := time.Now()
	caption := fmt.Sprintf("Daily snapshot at %02d:%02d (%s)",
		w.settings.Schedule.Hour, w.settings.Schedule.Minute, now.Format("2006-01-02 15:04:05"))
	w.captureAndSend(caption, true)
}

// captureAndSend is the shared action behind both flows: grab one
// fresh frame, encode it as JPEG and hand it to the notifier. Every
// outcome is logged and counted; failures never stop the watcher.
func (w *Watcher) captureAndSend(caption string, retryOnce bool) {
	id := uuid.NewString()

	frame, err := w.nextFrame()
	if err != nil && retryOnce && errors.Is(err, capture.ErrUnavailable) {
		w.logger.Warn("Frame source unavailable, retrying once.", "dispatch_id", id)
		frame, err = w.nextFrame()
	}
	if err != nil {
		w.stats.recordSourceError()
		w.stats.recordDispatch(id, time.Now(), true)
		w.logger.Error("Snapshot capture failed.", "dispatch_id", id, "error", err.Error())
		return
	}
	defer frame.Close()

	image, err := encodeJPEG(frame.Mat)
	if err != nil {
		w.stats.recordDispatch(id, time.Now(), true)
		w.logger.Error("Snapshot encoding failed.", "dispatch_id", id, "error", err.Error())
		return
	}

	if err := w.notifier.Send(image, caption); err != nil {
		w.stats.recordDispatch(id, time.Now(), true)
		w.logger.Error("Snapshot dispatch failed.", "dispatch_id", id, "error", err.Error())
		return
	}

	w.stats.recordDispatch(id, time.Now(), false)
	w.logger.Info("Snapshot dispatched.", "dispatch_id", id, "caption", caption, "bytes", len(image))
}

func (w *Watcher) nextFrame() (*capture.Frame, error) {
	w.sourceMu.Lock()
	defer w.sourceMu.Unlock()
	return w.source.NextFrame()
}

func encodeJPEG(mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// sleepCtx waits for d or until ctx is cancelled, reporting whether
// the full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
