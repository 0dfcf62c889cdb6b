package darkchannel

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"dehazer/internal/debug/timing"
	"dehazer/internal/logger"
	"dehazer/internal/models"
	"dehazer/internal/processing/buffers"
	"dehazer/internal/processing/filters"
)

const component = "DarkChannelProcessor"

// Stage names, as recorded in Result.Timings.
const (
	StageDarkChannel      = "dark_channel"
	StageRefine           = "guided_refinement"
	StageAtmosphericLight = "atmospheric_light"
	StageTransmission     = "transmission"
	StageRecovery         = "radiance_recovery"
)

// Result holds the dehazed image together with the intermediates that
// produced it.
type Result struct {
	Output           *models.Image
	DarkChannel      *models.Field
	Refined          *models.Field
	Transmission     *models.Field
	AtmosphericLight models.AtmosphericLight
	Timings          map[string]time.Duration
	Digest           uint64
	Buffers          buffers.Stats
}

type Option func(*Processor)

func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// Processor runs the dark channel prior pipeline. It keeps no state between
// calls and may be used from several goroutines.
type Processor struct {
	params models.DehazeParameters
	logger logger.Logger
}

func NewProcessor(params models.DehazeParameters, opts ...Option) (*Processor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	p := &Processor{
		params: params,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Dehaze is Process without the intermediates.
func (p *Processor) Dehaze(ctx context.Context, img *models.Image) (*models.Image, error) {
	result, err := p.Process(ctx, img)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// Process validates img and runs every stage. The input is never modified.
func (p *Processor) Process(ctx context.Context, img *models.Image) (*Result, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	ws := filters.NewWorkspace(p.params.Workers)
	defer ws.Buffers.Cleanup()
	tracker := timing.NewTracker()

	p.logger.Debug(component, "dehazing started", map[string]interface{}{
		"width":      img.Width,
		"height":     img.Height,
		"workers":    ws.Workers.NumWorkers(),
		"parameters": p.params.ToMap(),
	})

	span := tracker.Start(StageDarkChannel)
	dark, err := DarkChannel(ws, img, p.params.DarkChannelWindow)
	if err != nil {
		return nil, err
	}
	p.logStage(StageDarkChannel, span.End())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		refined *models.Field
		light   models.AtmosphericLight
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		span := tracker.Start(StageRefine)
		defer func() { p.logStage(StageRefine, span.End()) }()

		var err error
		refined, err = p.refine(gctx, ws, img, dark)
		return err
	})
	g.Go(func() error {
		span := tracker.Start(StageAtmosphericLight)
		defer func() { p.logStage(StageAtmosphericLight, span.End()) }()

		var err error
		light, err = EstimateAtmosphericLight(img, dark, p.params.TopFraction)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	span = tracker.Start(StageTransmission)
	t, err := EstimateTransmission(ws, refined, p.params.Omega, p.params.TransmissionFloor)
	if err != nil {
		return nil, err
	}
	p.logStage(StageTransmission, span.End())

	span = tracker.Start(StageRecovery)
	out, err := RecoverRadiance(ws, img, t, light)
	if err != nil {
		return nil, err
	}
	p.logStage(StageRecovery, span.End())

	result := &Result{
		Output:           out,
		DarkChannel:      dark,
		Refined:          refined,
		Transmission:     t,
		AtmosphericLight: light,
		Timings:          tracker.Totals(),
		Digest:           Digest(out),
		Buffers:          ws.Buffers.Stats(),
	}

	p.logger.Info(component, "dehazing completed", map[string]interface{}{
		"width":             img.Width,
		"height":            img.Height,
		"atmospheric_light": light[:],
		"digest":            fmt.Sprintf("%016x", result.Digest),
		"elapsed_ms":        time.Since(started).Milliseconds(),
		"slowest_stage":     tracker.Slowest(1),
		"buffer_hits":       result.Buffers.Hits,
		"buffer_misses":     result.Buffers.Misses,
	})

	return result, nil
}

// refine runs the guided filter on the normalised dark channel with the
// normalised luma of img as guidance.
func (p *Processor) refine(ctx context.Context, ws *filters.Workspace, img *models.Image, dark *models.Field) (*models.Field, error) {
	gray, err := filters.Grayscale(ws, img)
	if err != nil {
		return nil, err
	}
	defer ws.Release(gray)

	normalized := ws.NewField(dark.Width, dark.Height)
	defer ws.Release(normalized)
	for i, v := range dark.Data {
		normalized.Data[i] = v / 255.0
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return filters.GuidedFilter(ws, gray, normalized, p.params.GuidedWindow, p.params.GuidedEpsilon)
}

func (p *Processor) logStage(stage string, d time.Duration) {
	p.logger.Stage(component, stage, d)
}

// Digest fingerprints an image's dimensions and pixels.
func Digest(img *models.Image) uint64 {
	h := xxhash.New()
	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[:8], uint64(img.Width))
	binary.LittleEndian.PutUint64(dims[8:], uint64(img.Height))
	h.Write(dims[:])
	h.Write(img.Pix)
	return h.Sum64()
}

// Dehaze runs the pipeline on img with the default parameters.
func Dehaze(img *models.Image) (*models.Image, error) {
	p, err := NewProcessor(models.DefaultDehazeParameters())
	if err != nil {
		return nil, err
	}
	return p.Dehaze(context.Background(), img)
}
