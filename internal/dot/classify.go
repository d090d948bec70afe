// Package dot converts an intensity raster and its dither-threshold raster
// into a 2-bit dot-size raster for the print engine.
package dot

import (
	"context"
	"fmt"

	"github.com/davesmith10/NocaiPRN/internal/ir"
	"golang.org/x/sync/errgroup"
)

const (
	inkThreshold    = 128 // intensity below this never prints
	smallThreshold  = 192 // threshold >= this gives a small dot
	mediumThreshold = 128 // threshold >= this (and < smallThreshold) gives medium

	blockSize    = 4  // promotion neighbourhood is blockSize x blockSize
	blockBefore  = 1  // rows/columns of the block before the centre pixel
	promoteCount = 12 // nonzero cells needed to promote (75% of 16)
)

// Level maps one intensity sample and its threshold to a dot level.
func Level(intensity, threshold byte) ir.DotLevel {
	if intensity < inkThreshold {
		return ir.DotNone
	}
	switch {
	case threshold >= smallThreshold:
		return ir.DotSmall
	case threshold >= mediumThreshold:
		return ir.DotMedium
	default:
		return ir.DotLarge
	}
}

// Classify runs both classification phases and returns the dot raster.
// The inputs are not modified.
func Classify(intensity, threshold *ir.Gray) (*ir.Dots, error) {
	levels, err := ClassifyLevels(intensity, threshold)
	if err != nil {
		return nil, err
	}
	return Promote(levels), nil
}

// ClassifyLevels performs the per-pixel threshold classification only.
func ClassifyLevels(intensity, threshold *ir.Gray) (*ir.Dots, error) {
	if err := ir.CheckShape("intensity/threshold", intensity.Shape(), threshold.Shape()); err != nil {
		return nil, err
	}
	out := ir.NewDots(intensity.Width, intensity.Height)
	classifyRows(out, intensity, threshold, 0, intensity.Height)
	return out, nil
}

func classifyRows(out *ir.Dots, intensity, threshold *ir.Gray, y0, y1 int) {
	for i, n := y0*out.Width, y1*out.Width; i < n; i++ {
		out.Pix[i] = Level(intensity.Pix[i], threshold.Pix[i])
	}
}

// Promote applies the 4x4 neighbourhood rule to a copy of levels and
// returns it. Every count is taken from levels, never from the copy, so a
// promotion cannot influence another pixel in the same pass.
//
// Only rows 1..H-3 and columns 1..W-3 are visited: the first row/column and
// the last two rows/columns are never promoted.
func Promote(levels *ir.Dots) *ir.Dots {
	out := levels.Clone()
	promoteRows(out, levels, 0, levels.Height)
	return out
}

// promoteRows promotes pixels of out in rows [y0, y1) reading only src.
func promoteRows(out, src *ir.Dots, y0, y1 int) {
	yFirst, yLast := blockBefore, src.Height-(blockSize-blockBefore) // inclusive
	xFirst, xLast := blockBefore, src.Width-(blockSize-blockBefore)
	if y0 < yFirst {
		y0 = yFirst
	}
	if y1 > yLast+1 {
		y1 = yLast + 1
	}
	for y := y0; y < y1; y++ {
		for x := xFirst; x <= xLast; x++ {
			if src.At(x, y) == ir.DotLarge {
				continue
			}
			if countNonzero(src, x-blockBefore, y-blockBefore) >= promoteCount {
				out.Pix[y*out.Width+x] = ir.DotLarge
			}
		}
	}
}

// countNonzero counts the cells with any dot in the block whose top-left
// corner is (x0, y0). The block must lie inside the raster.
func countNonzero(d *ir.Dots, x0, y0 int) int {
	n := 0
	for y := y0; y < y0+blockSize; y++ {
		row := d.Pix[y*d.Width+x0 : y*d.Width+x0+blockSize]
		for _, v := range row {
			if v != ir.DotNone {
				n++
			}
		}
	}
	return n
}

// ClassifyParallel produces the same raster as Classify, splitting both
// phases into row bands processed by up to workers goroutines. Phase 2
// starts only after every band of Phase 1 has finished.
func ClassifyParallel(ctx context.Context, intensity, threshold *ir.Gray, workers int) (*ir.Dots, error) {
	if err := ir.CheckShape("intensity/threshold", intensity.Shape(), threshold.Shape()); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	height := intensity.Height
	levels := ir.NewDots(intensity.Width, height)

	if err := forBands(ctx, height, workers, func(y0, y1 int) {
		classifyRows(levels, intensity, threshold, y0, y1)
	}); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	out := levels.Clone()
	if err := forBands(ctx, height, workers, func(y0, y1 int) {
		promoteRows(out, levels, y0, y1)
	}); err != nil {
		return nil, fmt.Errorf("promote: %w", err)
	}
	return out, nil
}

// forBands calls fn for consecutive row bands covering [0, height).
func forBands(ctx context.Context, height, workers int, fn func(y0, y1 int)) error {
	if height == 0 {
		return nil
	}
	band := (height + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += band {
		y1 := min(y0+band, height)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(y0, y1)
			return nil
		})
	}
	return g.Wait()
}
