package main

import (
	"fmt"
	"os"

	"github.com/davesmith10/NocaiPRN/internal/ink"
	"github.com/davesmith10/NocaiPRN/internal/ir"
	"github.com/davesmith10/NocaiPRN/internal/prnfile"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode four raw dot-level files to PRN",
	RunE:  runEncode,
}

func init() {
	for _, ch := range ink.Order {
		encodeCmd.Flags().String(ch.Name(), "", fmt.Sprintf("Raw %s dot-level file", ch.Name()))
		encodeCmd.MarkFlagRequired(ch.Name())
	}
	encodeCmd.Flags().StringP("output", "o", "", "Output PRN file")
	encodeCmd.Flags().Int("width", 0, "Image width")
	encodeCmd.Flags().Int("height", 0, "Image height")
	encodeCmd.Flags().Int("xdpi", 0, "Horizontal resolution")
	encodeCmd.Flags().Int("ydpi", 0, "Vertical resolution")
	encodeCmd.MarkFlagRequired("output")
	encodeCmd.MarkFlagRequired("width")
	encodeCmd.MarkFlagRequired("height")
	encodeCmd.MarkFlagRequired("xdpi")
	encodeCmd.MarkFlagRequired("ydpi")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	xdpi, _ := cmd.Flags().GetInt("xdpi")
	ydpi, _ := cmd.Flags().GetInt("ydpi")

	if width < 0 || height < 0 {
		return fmt.Errorf("image size must not be negative, got %dx%d", width, height)
	}

	res := prnfile.Resolution{XDPI: xdpi, YDPI: ydpi}
	if err := res.Validate(); err != nil {
		return err
	}

	var channels prnfile.Channels
	for _, ch := range ink.Order {
		path, _ := cmd.Flags().GetString(ch.Name())
		d, err := loadRawDots(path, width, height)
		if err != nil {
			return fmt.Errorf("%s channel: %w", ch.Name(), err)
		}
		channels[ch] = d
	}

	hdr, err := prnfile.WriteFile(outputPath, channels, res)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	fmt.Printf("Encoded %dx%d → %s (%d bytes)\n", width, height, outputPath, hdr.FileSize())
	return nil
}

func loadRawDots(path string, width, height int) (*ir.Dots, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("negative dot raster size %dx%d", width, height)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	expected := width * height
	if len(raw) != expected {
		return nil, fmt.Errorf("%w: expected %d bytes for %dx%d dots, got %d", ir.ErrShapeMismatch, expected, width, height, len(raw))
	}
	d := ir.NewDots(width, height)
	for i, b := range raw {
		if b > byte(ir.DotLarge) {
			return nil, fmt.Errorf("invalid dot level %d at offset %d", b, i)
		}
		d.Pix[i] = ir.DotLevel(b)
	}
	return d, nil
}
