package commands

import (
	"fmt"

	"github.com/satishbabariya/hdbwrap/internal/config"
	"github.com/satishbabariya/hdbwrap/internal/ui"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var (
		provider string
		url      string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .hdbwrap.yaml",
		Long:  "Write a config file with the given database settings to the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName + ".yaml"
			if _, err := config.AppFs.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			cfg := &config.Config{
				Provider:       provider,
				DatabaseURL:    url,
				MaxConnections: 10,
				MaxIdleTime:    300,
				ConnectTimeout: 10,
				Telemetry:      "noop",
			}
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			ui.PrintSuccess("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "sqlite", "Database provider (sqlite, postgres, mysql)")
	cmd.Flags().StringVar(&url, "url", "", "Database URL")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
