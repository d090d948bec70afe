package main

import (
	"fmt"

	"github.com/davesmith10/NocaiPRN/internal/ink"
	"github.com/davesmith10/NocaiPRN/internal/mask"
	"github.com/davesmith10/NocaiPRN/internal/raster"
	"github.com/spf13/cobra"
)

var maskCmd = &cobra.Command{
	Use:   "mask",
	Short: "Tile a dither tile into four per-channel threshold TIFFs",
	RunE:  runMask,
}

func init() {
	maskCmd.Flags().StringP("input", "i", "", "Dither tile (TIFF, PNG or BMP)")
	maskCmd.Flags().StringP("output", "o", "mask", "Output prefix; writes <prefix>_<ink>.tif")
	maskCmd.Flags().Int("width", 0, "Page width in pixels")
	maskCmd.Flags().Int("height", 0, "Page height in pixels")
	maskCmd.MarkFlagRequired("input")
	maskCmd.MarkFlagRequired("width")
	maskCmd.MarkFlagRequired("height")
	rootCmd.AddCommand(maskCmd)
}

func runMask(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	prefix, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	if width <= 0 || height <= 0 {
		return fmt.Errorf("page size must be positive, got %dx%d", width, height)
	}

	tile, err := raster.Load(inputPath)
	if err != nil {
		return err
	}

	masks, err := mask.TileChannels(tile.Gray, width, height)
	if err != nil {
		return err
	}

	for _, ch := range ink.Order {
		path := fmt.Sprintf("%s_%s.tif", prefix, ch.Name())
		if err := raster.SaveTIFF(path, masks[ch]); err != nil {
			return err
		}
		fmt.Printf("%s: %s (offset %d)\n", ch, path, mask.DefaultOffsets[ch])
	}
	return nil
}
