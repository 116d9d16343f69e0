package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	inframepo "github.com/warelabs/taskterm/internal/infrastructure/repository"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data (bins, pallets, products) into the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			loader := inframepo.NewSeedLoader(osFs)
			if err := loader.Load(cmd.Context(), file, store); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reference data loaded")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "seed.yaml", "seed file to load")
	return cmd
}
