package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warelabs/taskterm/internal/application/rules"
	"github.com/warelabs/taskterm/internal/application/wizard"
	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
	"github.com/warelabs/taskterm/internal/infrastructure/persistence/sqlite"
	"github.com/warelabs/taskterm/internal/infrastructure/sink"
)

func newWizardCmd() *cobra.Command {
	var values []string

	cmd := &cobra.Command{
		Use:   "wizard <action-id>",
		Short: "Run an action's step wizard with scripted values",
		Long: `Runs the guided data-collection flow for one planned action without an
interactive screen: each --value supplies the scanned/typed input for the
step collecting that field, the summary is auto-confirmed, and the produced
fact action is appended to the journal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask()
			if err != nil {
				return err
			}
			actionID, err := model.NewActionIDFromString(args[0])
			if err != nil {
				return err
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			supplied, err := parseValueFlags(values)
			if err != nil {
				return err
			}

			session, err := wizard.NewSession(t, actionID, wizard.Deps{
				Evaluator: rules.NewEvaluator(nil),
				Sink:      sink.NewFactJournal(osFs, globalConfig.JournalPath()),
			})
			if err != nil {
				return err
			}
			return runScripted(cmd.Context(), cmd, session, store, supplied)
		},
	}
	cmd.Flags().StringArrayVar(&values, "value", nil, "step input as Field=code, e.g. --value StorageBin=A-01-01")
	return cmd
}

func parseValueFlags(raw []string) (map[model.FactActionField]string, error) {
	out := make(map[model.FactActionField]string, len(raw))
	for _, r := range raw {
		field, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("value %q must be Field=code", r)
		}
		f, err := model.ParseFactActionField(field)
		if err != nil {
			return nil, err
		}
		out[f] = value
	}
	return out, nil
}

// runScripted walks the wizard to completion using the supplied inputs
func runScripted(ctx context.Context, cmd *cobra.Command, s *wizard.Session, store *sqlite.Store, supplied map[model.FactActionField]string) error {
	log := GetLogger()
	for s.State() == wizard.StateStep {
		step := s.CurrentStep()
		raw, have := supplied[step.Field()]
		if have {
			value, err := resolveValue(ctx, store, step.Field(), raw)
			if err != nil {
				return err
			}
			if err := s.SetObject(ctx, step.ID(), value); err != nil {
				return err
			}
			if s.PendingConfirmation() {
				// Scripted runs acknowledge confirmations implicitly
				if err := s.ConfirmAdvance(); err != nil {
					return err
				}
			}
			if fieldErr := s.Error(); fieldErr != nil {
				return fmt.Errorf("step %s: %w", step.ID(), fieldErr)
			}
		}
		if s.State() != wizard.StateStep {
			break
		}
		before := s.StepIndex()
		if err := s.NextStep(); err != nil {
			return err
		}
		if fieldErr := s.Error(); fieldErr != nil {
			return fmt.Errorf("step %s: %w", step.ID(), fieldErr)
		}
		if s.State() == wizard.StateStep && s.StepIndex() == before {
			return fmt.Errorf("step %s did not advance", step.ID())
		}
	}

	if s.State() != wizard.StateSummary {
		return fmt.Errorf("wizard ended in state %s", s.State())
	}
	log.Debug("submitting fact for action %s", s.Action().ID())
	if err := s.Submit(ctx); err != nil {
		return err
	}
	fact := s.EmittedFact()
	fmt.Fprintf(cmd.OutOrStdout(), "recorded fact %s for action %s\n", fact.ID(), fact.ActionID())
	return nil
}

// resolveValue turns a raw flag value into the typed value a step expects
func resolveValue(ctx context.Context, store *sqlite.Store, field model.FactActionField, raw string) (task.FieldValue, error) {
	switch field {
	case model.FieldStorageBin, model.FieldPlacementBin:
		b, err := store.Bins().ResolveByCode(ctx, raw)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, fmt.Errorf("unknown bin %q", raw)
		}
		return task.BinValue{Bin: b}, nil
	case model.FieldStoragePallet, model.FieldPlacementPallet:
		p, err := store.Pallets().ResolveByCode(ctx, raw)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("unknown pallet %q", raw)
		}
		return task.PalletValue{Pallet: p}, nil
	case model.FieldStorageProduct:
		p, err := store.Products().ResolveByBarcode(ctx, raw)
		if err != nil {
			return nil, err
		}
		if p == nil {
			p, err = store.Products().ResolveByCode(ctx, raw)
			if err != nil {
				return nil, err
			}
		}
		if p == nil {
			return nil, fmt.Errorf("unknown product %q", raw)
		}
		return task.ProductValue{Product: p}, nil
	case model.FieldStorageProductClassifier:
		c, err := store.Products().ResolveClassifier(ctx, raw)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("unknown classifier %q", raw)
		}
		return task.ClassifierValue{Classifier: c}, nil
	case model.FieldQuantity:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("quantity %q is not a number", raw)
		}
		q, err := model.NewQuantity(v)
		if err != nil {
			return nil, err
		}
		return task.QuantityValue{Quantity: q}, nil
	default:
		return nil, fmt.Errorf("field %s cannot be supplied from the command line", field)
	}
}
