package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"github.com/davesmith10/NocaiPRN/internal/dot"
	"github.com/davesmith10/NocaiPRN/internal/ink"
	"github.com/davesmith10/NocaiPRN/internal/ir"
	"github.com/davesmith10/NocaiPRN/internal/prnfile"
	"github.com/davesmith10/NocaiPRN/internal/raster"
	"golang.org/x/sync/errgroup"
)

// Options controls the full raster → PRN pipeline.
type Options struct {
	Resolution prnfile.Resolution
	Workers    int // row-band workers per channel; 0 means GOMAXPROCS
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Input is the eight rasters of one job, indexed by ink.Channel.
type Input struct {
	Intensity [ink.Count]*ir.Gray
	Threshold [ink.Count]*ir.Gray
}

// Paths names the eight raster files of one job, indexed by ink.Channel.
type Paths struct {
	Intensity [ink.Count]string
	Threshold [ink.Count]string
}

// Result holds the output of a pipeline run.
type Result struct {
	Header   prnfile.Header
	Channels prnfile.Channels
}

// Validate checks that every raster is present and all eight share one
// shape.
func (in *Input) Validate() (ir.Shape, error) {
	for _, ch := range ink.Order {
		if in.Intensity[ch] == nil || in.Threshold[ch] == nil {
			return ir.Shape{}, fmt.Errorf("missing %s raster", ch.Name())
		}
	}
	want := in.Intensity[ink.Order[0]].Shape()
	for _, ch := range ink.Order {
		if err := ir.CheckShape(ch.Name()+" intensity", want, in.Intensity[ch].Shape()); err != nil {
			return ir.Shape{}, err
		}
		if err := ir.CheckShape(ch.Name()+" threshold", want, in.Threshold[ch].Shape()); err != nil {
			return ir.Shape{}, err
		}
	}
	return want, nil
}

// LoadInput decodes the eight rasters named by paths concurrently.
func LoadInput(ctx context.Context, paths Paths) (*Input, error) {
	in := &Input{}
	g, ctx := errgroup.WithContext(ctx)
	load := func(dst **ir.Gray, path string) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := raster.Load(path)
			if err != nil {
				return err
			}
			*dst = d.Gray
			return nil
		})
	}
	for _, ch := range ink.Order {
		load(&in.Intensity[ch], paths.Intensity[ch])
		load(&in.Threshold[ch], paths.Threshold[ch])
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// Classify turns every channel of in into a dot raster. Channels run
// concurrently; each reads only its own pair of rasters and owns its
// output.
func Classify(ctx context.Context, in *Input, opts Options) (prnfile.Channels, error) {
	var out prnfile.Channels
	if _, err := in.Validate(); err != nil {
		return out, err
	}
	workers := opts.workers()
	g, ctx := errgroup.WithContext(ctx)
	for _, ch := range ink.Order {
		g.Go(func() error {
			d, err := dot.ClassifyParallel(ctx, in.Intensity[ch], in.Threshold[ch], workers)
			if err != nil {
				return fmt.Errorf("%s channel: %w", ch.Name(), err)
			}
			out[ch] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return prnfile.Channels{}, err
	}
	return out, nil
}

// Run executes the full pipeline: validate → classify → write PRN.
// Nothing is written to outputPath unless every step succeeds.
func Run(ctx context.Context, in *Input, opts Options, outputPath string) (*Result, error) {
	if err := opts.Resolution.Validate(); err != nil {
		return nil, err
	}

	channels, err := Classify(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	hdr, err := prnfile.WriteFile(outputPath, channels, opts.Resolution)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	return &Result{Header: hdr, Channels: channels}, nil
}
