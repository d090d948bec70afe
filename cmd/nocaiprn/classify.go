package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/davesmith10/NocaiPRN/internal/dot"
	"github.com/davesmith10/NocaiPRN/internal/raster"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one channel into dot levels (raw output + JSON sidecar)",
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().StringP("input", "i", "", "Intensity raster (TIFF, PNG or BMP)")
	classifyCmd.Flags().StringP("threshold", "t", "", "Threshold raster for the same channel")
	classifyCmd.Flags().StringP("output", "o", "", "Output raw dot-level file (one byte per pixel)")
	classifyCmd.Flags().String("preview", "", "Optional PNG preview of the dot levels")
	classifyCmd.MarkFlagRequired("input")
	classifyCmd.MarkFlagRequired("threshold")
	classifyCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(classifyCmd)
}

type dotsMeta struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

const rawDotsFormat = "DOT2"

func runClassify(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	thresholdPath, _ := cmd.Flags().GetString("threshold")
	outputPath, _ := cmd.Flags().GetString("output")
	previewPath, _ := cmd.Flags().GetString("preview")

	intensity, err := raster.Load(inputPath)
	if err != nil {
		return err
	}
	threshold, err := raster.Load(thresholdPath)
	if err != nil {
		return err
	}

	dots, err := dot.Classify(intensity.Gray, threshold.Gray)
	if err != nil {
		return err
	}

	raw := make([]byte, len(dots.Pix))
	var counts [4]int
	for i, v := range dots.Pix {
		raw[i] = byte(v)
		counts[v]++
	}
	if err := os.WriteFile(outputPath, raw, 0644); err != nil {
		return fmt.Errorf("writing raw dots: %w", err)
	}

	// Write JSON sidecar
	meta := dotsMeta{
		Width:  dots.Width,
		Height: dots.Height,
		Format: rawDotsFormat,
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sidecar: %w", err)
	}
	metaPath := strings.TrimSuffix(outputPath, ".raw") + ".json"
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}

	if previewPath != "" {
		png, err := raster.EncodeDotsPreview(dots)
		if err != nil {
			return err
		}
		if err := os.WriteFile(previewPath, png, 0644); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
		fmt.Printf("Preview: %s\n", previewPath)
	}

	fmt.Printf("Classified %dx%d → raw dots (%d bytes)\n", dots.Width, dots.Height, len(raw))
	fmt.Printf("Levels: none=%d small=%d medium=%d large=%d\n", counts[0], counts[1], counts[2], counts[3])
	fmt.Printf("Sidecar: %s\n", metaPath)
	return nil
}
