package main

import (
	"github.com/spf13/cobra"

	"interview-ingest-go/internal/config"
	"interview-ingest-go/internal/logger"
)

// commandContext carries what every subcommand needs: the resolved
// configuration and the run logger.
type commandContext struct {
	configFlag string
	cfg        *config.Config
	log        *logger.Logger
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{log: logger.New()}

	rootCmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Interview transcript ingestion pipeline",
		Long:          "Download interview audio, transcribe and diarize it, relabel speakers by role, and chunk the result for embedding and vector search.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "ingest.toml", "Configuration file path")

	rootCmd.AddCommand(newFetchCommand(ctx))
	rootCmd.AddCommand(newLabelCommand(ctx))
	rootCmd.AddCommand(newChunkCommand(ctx))
	rootCmd.AddCommand(newPrepCommand(ctx))
	rootCmd.AddCommand(newEmbedCommand(ctx))
	rootCmd.AddCommand(newLoadCommand(ctx))

	return rootCmd
}
