// Package cli is the operator/development harness around the execution
// engine: it loads the task snapshot, wires the local reference store and
// drives the validator, search and wizard from the command line.
package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/warelabs/taskterm/internal/app/config"
)

// globalConfig holds the loaded configuration for all commands
var globalConfig config.Config

// NewRoot builds the taskterm command tree
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskterm",
		Short: "Warehouse terminal task engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			globalConfig = config.LoadFromEnv()
			InitGlobalLogger(globalConfig.StderrLevel())
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newTaskCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newWizardCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}

// osFs is the filesystem the commands operate on; tests swap it for a
// memory-backed one
var osFs = afero.NewOsFs()
