package main

import (
	"fmt"
	"strconv"

	"github.com/davesmith10/NocaiPRN/internal/ink"
	"github.com/davesmith10/NocaiPRN/internal/pipeline"
	"github.com/davesmith10/NocaiPRN/internal/prnfile"
	"github.com/spf13/cobra"
)

// Positional order of the input rasters on the command line.
var argOrder = [ink.Count]ink.Channel{ink.Cyan, ink.Magenta, ink.Yellow, ink.Black}

var convertCmd = &cobra.Command{
	Use:   "convert c.tif m.tif y.tif k.tif c_mask.tif m_mask.tif y_mask.tif k_mask.tif XDPI YDPI output.prn",
	Short: "Classify four halftone channels and write a PRN file",
	Args:  cobra.ExactArgs(11),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().Int("workers", 0, "Row-band workers per channel (0 = all CPUs)")
	rootCmd.AddCommand(convertCmd)
}

func parseResolution(xs, ys string) (prnfile.Resolution, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return prnfile.Resolution{}, fmt.Errorf("%w: xdpi %q", prnfile.ErrInvalidResolution, xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return prnfile.Resolution{}, fmt.Errorf("%w: ydpi %q", prnfile.ErrInvalidResolution, ys)
	}
	res := prnfile.Resolution{XDPI: x, YDPI: y}
	if err := res.Validate(); err != nil {
		return prnfile.Resolution{}, err
	}
	return res, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	workers, _ := cmd.Flags().GetInt("workers")

	res, err := parseResolution(args[8], args[9])
	if err != nil {
		return err
	}
	outputPath := args[10]

	var paths pipeline.Paths
	for i, ch := range argOrder {
		paths.Intensity[ch] = args[i]
		paths.Threshold[ch] = args[4+i]
	}

	in, err := pipeline.LoadInput(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("loading rasters: %w", err)
	}
	shape, err := in.Validate()
	if err != nil {
		return err
	}
	fmt.Printf("Image loaded: %dx%d, packing to 2-bit.\n", shape.Width, shape.Height)

	result, err := pipeline.Run(cmd.Context(), in, pipeline.Options{
		Resolution: res,
		Workers:    workers,
	}, outputPath)
	if err != nil {
		return fmt.Errorf("conversion: %w", err)
	}

	fmt.Println("Sample packed bytes (row 0):")
	for _, ch := range ink.Order {
		fmt.Printf("%s: % x\n", ch, sampleRow(result.Channels, ch))
	}
	printHeader(outputPath, result.Header)
	return nil
}

// sampleRow returns up to 8 packed bytes of row 0 of channel ch.
func sampleRow(channels prnfile.Channels, ch ink.Channel) []byte {
	d := channels[ch]
	if d.Height == 0 {
		return nil
	}
	packed := prnfile.PackRow(d.Row(0))
	return packed[:min(len(packed), 8)]
}

func printHeader(path string, h prnfile.Header) {
	fmt.Printf("PRN file created: %s\n", path)
	fmt.Println("Header contents:")
	fmt.Printf("  XDPI          = %d\n", h.XDPI)
	fmt.Printf("  YDPI          = %d\n", h.YDPI)
	fmt.Printf("  Width         = %d\n", h.Width)
	fmt.Printf("  Height        = %d\n", h.Height)
	fmt.Printf("  BytesPerLine  = %d\n", h.BytesPerLine)
	fmt.Printf("  Total Bytes   = %d\n", h.FileSize())
}
