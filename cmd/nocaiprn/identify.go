package main

import (
	"fmt"

	"github.com/davesmith10/NocaiPRN/internal/prnfile"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect a PRN file header",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := prnfile.Stat(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	fmt.Printf("File:          %s\n", path)
	fmt.Printf("Signature:     0x%08x\n", info.Signature)
	fmt.Printf("Resolution:    %d x %d dpi\n", info.XDPI, info.YDPI)
	fmt.Printf("Dimensions:    %d x %d\n", info.Width, info.Height)
	fmt.Printf("BytesPerLine:  %d\n", info.BytesPerLine)
	fmt.Printf("Colors:        %d\n", info.Colors)
	fmt.Printf("Bits:          %d\n", info.Bits)
	fmt.Printf("Pass:          %d\n", info.Pass)
	fmt.Printf("VSDMode:       %d\n", info.VSDMode)
	fmt.Printf("PaperWidth:    %d\n", info.PaperWidth)

	if !info.SizeOK() {
		return fmt.Errorf("%w: %s is %d bytes, header implies %d", prnfile.ErrSizeMismatch, path, info.Size, info.Expected)
	}
	fmt.Printf("File size:     %d bytes (matches header)\n", info.Size)
	return nil
}
