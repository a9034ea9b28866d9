package main

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	imagepkg "github.com/youruser/certapp/internal/image"
)

// qrCommand writes a bare QR code PNG, handy for checking what a scanner
// reads from a given payload.
func qrCommand(_ *app) *cobra.Command {
	var text, out string
	var size int

	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Writes a QR code PNG for arbitrary text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := imagepkg.GenerateQRPNG(text, size)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil { //nolint: gosec
				return errors.Wrap(err, "write qr")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Text to encode")
	cmd.Flags().IntVarP(&size, "size", "s", 400, "Image side in pixels")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}
