package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"dehazer/internal/algorithms/darkchannel"
	"dehazer/internal/debug/timing"
	"dehazer/internal/logger"
	"dehazer/internal/models"
)

// DefaultDisplayWidth is the width images are scaled to before dehazing
// when the caller asks for display sizing.
const DefaultDisplayWidth = 500

// StdinPath as InputPath reads the encoded image from Config.Stdin.
const StdinPath = "-"

// Config describes one driver run.
type Config struct {
	InputPath string
	// Stdin is read when InputPath is StdinPath.
	Stdin       io.Reader
	OutputPath  string
	ComparePath string
	// DumpDir receives the dark channel, refined dark channel and
	// transmission map as 8-bit gray images when set.
	DumpDir      string
	DisplayWidth int
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is required", models.ErrInvalidArgument)
	}
	if c.InputPath == StdinPath && c.Stdin == nil {
		return fmt.Errorf("%w: input %q needs a reader", models.ErrInvalidArgument, StdinPath)
	}
	if c.DisplayWidth < 0 {
		return fmt.Errorf("%w: display width must not be negative, got %d", models.ErrInvalidArgument, c.DisplayWidth)
	}
	return nil
}

// Report is what a driver run produced.
type Report struct {
	Original *models.Image
	Result   *darkchannel.Result
	Written  []string
	// Timings holds the driver steps (load, resize, dehaze, writes). Stage
	// timings of the dehazing core are in Result.Timings.
	Timings map[string]time.Duration
	Elapsed time.Duration
}

// Coordinator wires file I/O around the dehazing core.
type Coordinator struct {
	loader  ImageLoader
	saver   ImageSaver
	dehazer Dehazer
	logger  logger.Logger
}

// NewCoordinator uses the OpenCV loader and saver.
func NewCoordinator(dehazer Dehazer, log logger.Logger) *Coordinator {
	return NewCoordinatorWith(NewImageLoader(log), NewImageSaver(log), dehazer, log)
}

// NewCoordinatorWith allows substituting the loader and saver.
func NewCoordinatorWith(loader ImageLoader, saver ImageSaver, dehazer Dehazer, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		loader:  loader,
		saver:   saver,
		dehazer: dehazer,
		logger:  log,
	}
}

// Run loads cfg.InputPath, optionally resizes it, dehazes it and writes
// every requested artifact.
func (c *Coordinator) Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()
	tracker := timing.NewTracker()

	report, err := c.run(ctx, cfg, tracker)
	if err != nil {
		c.logger.Error("Coordinator", err, map[string]interface{}{
			"input":      cfg.InputPath,
			"timings_ms": millis(tracker.Totals()),
		})
		return nil, err
	}

	report.Timings = tracker.Totals()
	report.Elapsed = time.Since(started)

	c.logger.Info("Coordinator", "run completed", map[string]interface{}{
		"input":      cfg.InputPath,
		"width":      report.Original.Width,
		"height":     report.Original.Height,
		"written":    report.Written,
		"timings_ms": millis(report.Timings),
		"elapsed_ms": report.Elapsed.Milliseconds(),
	})
	return report, nil
}

func (c *Coordinator) run(ctx context.Context, cfg Config, tracker *timing.Tracker) (*Report, error) {
	original, err := c.load(tracker, cfg)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	span := tracker.Start("resize")
	original, err = c.loader.ResizeToWidth(original, cfg.DisplayWidth)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}

	span = tracker.Start("dehaze")
	result, err := c.dehazer.Process(ctx, original)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("dehaze: %w", err)
	}

	report := &Report{Original: original, Result: result}

	if cfg.OutputPath != "" {
		span := tracker.Start("save_output")
		err := c.saver.SaveImage(cfg.OutputPath, result.Output)
		span.End()
		if err != nil {
			return nil, fmt.Errorf("save output: %w", err)
		}
		report.Written = append(report.Written, cfg.OutputPath)
	}

	if cfg.ComparePath != "" {
		span := tracker.Start("save_comparison")
		err := c.saver.SaveComparison(cfg.ComparePath, original, result.Output)
		span.End()
		if err != nil {
			return nil, fmt.Errorf("save comparison: %w", err)
		}
		report.Written = append(report.Written, cfg.ComparePath)
	}

	if cfg.DumpDir != "" {
		span := tracker.Start("dump_intermediates")
		written, err := c.dumpIntermediates(cfg.DumpDir, result)
		span.End()
		report.Written = append(report.Written, written...)
		if err != nil {
			return nil, fmt.Errorf("dump intermediates: %w", err)
		}
	}

	return report, nil
}

func millis(timings map[string]time.Duration) map[string]float64 {
	out := make(map[string]float64, len(timings))
	for op, d := range timings {
		out[op] = float64(d.Microseconds()) / 1000.0
	}
	return out
}

func (c *Coordinator) load(tracker *timing.Tracker, cfg Config) (*models.Image, error) {
	if cfg.InputPath != StdinPath {
		span := tracker.Start("load_from_path")
		defer span.End()
		return c.loader.LoadFromPath(cfg.InputPath)
	}

	span := tracker.Start("load_from_stdin")
	defer span.End()

	data, err := io.ReadAll(cfg.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	return c.loader.LoadFromBytes(data)
}

func (c *Coordinator) dumpIntermediates(dir string, result *darkchannel.Result) ([]string, error) {
	maps := []struct {
		name  string
		field *models.Field
		scale float64
	}{
		{"dark_channel.png", result.DarkChannel, 1},
		{"refined_dark_channel.png", result.Refined, 255},
		{"transmission.png", result.Transmission, 255},
	}

	var written []string
	for _, m := range maps {
		path := filepath.Join(dir, m.name)
		if err := c.saver.SaveField(path, m.field, m.scale); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
