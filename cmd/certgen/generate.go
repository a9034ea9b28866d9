package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/certapp/internal/cert"
	"github.com/youruser/certapp/internal/util"
	"github.com/youruser/certapp/pkg/logger"
)

// failureMessage turns a generation failure into what the registrant sees.
func failureMessage(err error) string {
	switch cert.KindOf(err) {
	case cert.ErrNotRegistered:
		return "Email not registered for this event"
	case cert.ErrAssetLoad:
		return "The certificate template could not be loaded, please contact the organizer"
	case cert.ErrEncoding:
		return "Certificate details are too long to fit in the QR code, please contact the organizer"
	default:
		return "Failed to generate certificate. Please try again."
	}
}

func generateCommand(a *app) *cobra.Command {
	var eventID, email, format, outDir string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates the certificate of a registrant and writes it to the output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.WithFields(cmd.Context(), zap.String("request_id", uuid.NewString()))

			if format == "" {
				format = a.cfg.Certificate.Format
			}
			f, err := cert.ParseFormat(format)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.Output.Dir
			}

			store, err := a.store()
			if err != nil {
				return errors.Wrap(err, "load events")
			}

			res := a.generator(store, f).Generate(ctx, cert.Request{EventID: eventID, Email: email})
			if res.Err != nil {
				logger.Warn(ctx, "certificate generation failed", zap.Error(res.Err))
				return errors.New(failureMessage(res.Err))
			}

			path, err := util.WriteFile(outDir, res.Artifact.Filename, res.Artifact.Data)
			if err != nil {
				return errors.Wrap(err, "write certificate")
			}

			logger.Info(ctx, "certificate generated",
				zap.String("path", path), zap.Int("bytes", len(res.Artifact.Data)))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventID, "event", "e", "", "Event id")
	cmd.Flags().StringVarP(&email, "email", "m", "", "Registrant email address")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format (pdf or png), defaults to config")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory, defaults to config")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
