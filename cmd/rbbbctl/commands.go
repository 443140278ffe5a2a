package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/krasavchik01/rbbb-sub002/internal/app"
	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/krasavchik01/rbbb-sub002/internal/logger"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

// errSyncIncomplete is returned when a forced sync did not refresh every collection
var errSyncIncomplete = errors.New("sync incomplete")

// session is the opened data layer of one command invocation
type session struct {
	infra  *app.Infrastructure
	logger *zap.Logger
}

func openSession(ctx context.Context, logLevel string) (*session, error) {
	cfg, err := config.LoadWithSecrets(ctx, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return nil, err
	}

	infra, err := app.Open(ctx, cfg, log, nil)
	if err != nil {
		return nil, err
	}
	return &session{infra: infra, logger: log}, nil
}

func (s *session) close() {
	_ = s.infra.Close()
	_ = s.logger.Sync()
}

func newRootCmd(out io.Writer) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "rbbbctl",
		Short:         "Administrative tasks for the engagement API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSyncCmd(&logLevel),
		newTemplatesCmd(&logLevel),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "rbbbctl version %s\n", version)
			},
		},
	)
	return cmd
}

func newSyncCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh every collection of the local cache from the remote mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *logLevel)
			if err != nil {
				return err
			}
			defer s.close()

			report := service.NewSyncService(s.infra.Store, s.logger).ForceSync(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.OK() {
				return errSyncIncomplete
			}
			return nil
		},
	}
}

func newTemplatesCmd(logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage methodology templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import templates from a YAML document",
		Long: `Import validates the whole document before saving anything. Templates
that already exist are replaced and their version is bumped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			s, err := openSession(cmd.Context(), *logLevel)
			if err != nil {
				return err
			}
			defer s.close()

			saved, err := service.NewTemplateService(s.infra.Store, s.logger).Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			for _, tpl := range saved {
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s (version %d)\n", tpl.ID, tpl.Version)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), *logLevel)
			if err != nil {
				return err
			}
			defer s.close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVERSION\tCATEGORY\tNAME")
			for _, tpl := range service.NewTemplateService(s.infra.Store, s.logger).List(cmd.Context()) {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", tpl.ID, tpl.Version, tpl.Category, tpl.Name)
			}
			return w.Flush()
		},
	})

	return cmd
}
