package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/service/search"
	"github.com/warelabs/taskterm/internal/infrastructure/lookup/cached"
	"github.com/warelabs/taskterm/internal/infrastructure/persistence/sqlite"
)

// openStore opens the local reference store
func openStore() (*sqlite.Store, error) {
	db, err := sqlite.Open(globalConfig.ReferenceDBPath())
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(db), nil
}

func newScanCmd() *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "scan <value>",
		Short: "Resolve a scanned or typed value against the eligible actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask()
			if err != nil {
				return err
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ttl := globalConfig.LookupCacheTTL()
			searcher := search.NewSearcher(
				cached.NewBinLookup(store.Bins(), ttl),
				cached.NewPalletLookup(store.Pallets(), ttl),
				cached.NewProductLookup(store.Products(), ttl),
			)

			filter := search.NewFilter(t.Type().SearchFields())
			for _, raw := range filters {
				field, value, ok := strings.Cut(raw, "=")
				if !ok {
					return fmt.Errorf("filter %q must be field=entity-id", raw)
				}
				f, err := model.ParseFactActionField(field)
				if err != nil {
					return err
				}
				filter.Add(f, value, value)
			}

			result := searcher.Search(cmd.Context(), args[0], t, filter)
			switch result.Status {
			case search.StatusFound:
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", result.Field, result.Entity.DisplayCode())
				for _, id := range result.ActionIDs {
					fmt.Fprintf(cmd.OutOrStdout(), "  action %s\n", id)
				}
			case search.StatusNotFound:
				fmt.Fprintf(cmd.OutOrStdout(), "not found: %s\n", result.Reason)
			case search.StatusError:
				return fmt.Errorf("search failed: %s", result.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "restrict candidates, e.g. --filter StorageBin=<entity-id>")
	return cmd
}
