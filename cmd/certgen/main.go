// Package main is the certgen CLI: it loads configuration and the event
// catalog, and issues certificates to disk.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/certapp/internal/cert"
	"github.com/youruser/certapp/internal/config"
	"github.com/youruser/certapp/internal/events"
	imagepkg "github.com/youruser/certapp/internal/image"
	"github.com/youruser/certapp/pkg/logger"
)

// app carries what subcommands share once the root command has loaded the
// configuration.
type app struct {
	cfg *config.Config
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger.Setup(cfg.Environment)
	a.cfg = cfg
	return nil
}

func (a *app) store() (*events.Store, error) {
	return events.LoadFile(a.cfg.Store.EventsFile)
}

func (a *app) generator(dir cert.Directory, format cert.Format) *cert.Generator {
	loader := imagepkg.NewLoader(imagepkg.LoaderOptions{
		BaseDir:  a.cfg.Assets.BaseDir,
		Timeout:  a.cfg.Assets.FetchTimeout,
		MaxBytes: a.cfg.Assets.MaxBytes,
	})
	return cert.NewGenerator(dir, loader, cert.Options{
		Verifier:     a.cfg.Certificate.VerifierLabel,
		Format:       format,
		RawFilenames: a.cfg.Certificate.RawFilenames,
	})
}

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "certgen",
		Short:             "Issue event certificates with a verification QR code",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	rootCmd.AddCommand(
		generateCommand(a),
		qrCommand(a),
		eventsCommand(a),
	)
	return rootCmd
}

func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	err := newRootCommand().ExecuteContext(ctx)
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
