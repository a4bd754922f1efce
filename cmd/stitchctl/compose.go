package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yokitheyo/panostitcher/internal/stitching"
)

func newComposeCommand() *cobra.Command {
	var (
		output  string
		scans   bool
		quality int
		kernel  int
		noCrop  bool
	)

	cmd := &cobra.Command{
		Use:   "compose [images...]",
		Short: "Stitch two or more overlapping images into one panorama",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, skipped := stitching.LoadImages(args)
			defer stitching.CloseAll(images)

			if skipped > 0 {
				fmt.Fprintf(os.Stderr, "skipped %d undecodable file(s)\n", skipped)
			}
			if len(images) < 2 {
				return fmt.Errorf("got %d decodable image(s), need at least 2", len(images))
			}

			stitcher := stitching.NewOpenCVStitcher(scans)
			result := stitcher.Stitch(images)
			if !result.OK() {
				return fmt.Errorf("stitching failed: %s (error code %d)", result.Status, int(result.Status))
			}
			pano := result.Pano
			defer pano.Close()

			final := pano
			if !noCrop {
				cropped := stitching.CropBorders(pano, kernel)
				defer cropped.Close()
				final = cropped
			}

			data, err := stitching.EncodeJPEG(final, quality)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Printf("composed %d image(s) into %s (%dx%d, %d bytes)\n",
				len(images), output, final.Cols(), final.Rows(), len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "panorama.jpg", "output file")
	cmd.Flags().BoolVar(&scans, "scans", false, "use scans mode for flat originals")
	cmd.Flags().IntVar(&quality, "quality", stitching.DefaultJPEGQuality, "JPEG quality (1-100)")
	cmd.Flags().IntVar(&kernel, "kernel", stitching.DefaultCropKernelSize, "closing kernel size for border cropping")
	cmd.Flags().BoolVar(&noCrop, "no-crop", false, "keep the black borders")

	return cmd
}
