package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/model/task"
	"github.com/warelabs/taskterm/internal/domain/repository"
	"github.com/warelabs/taskterm/internal/domain/service/ordering"
)

// Status classifies a search outcome
type Status string

const (
	// StatusFound means the value resolved and matched candidate actions
	StatusFound Status = "Found"
	// StatusNotFound means no eligible action matched the value
	StatusNotFound Status = "NotFound"
	// StatusError means the search could not be performed
	StatusError Status = "Error"
)

// Result is the outcome of resolving a scanned/typed value against the
// currently eligible actions
type Result struct {
	Status    Status
	Field     model.FactActionField
	Entity    stock.Entity
	ActionIDs []model.ActionID
	Reason    string
}

func found(field model.FactActionField, entity stock.Entity, ids []model.ActionID) Result {
	return Result{Status: StatusFound, Field: field, Entity: entity, ActionIDs: ids}
}

func notFound(reason string) Result {
	return Result{Status: StatusNotFound, Reason: reason}
}

func failed(reason string) Result {
	return Result{Status: StatusError, Reason: reason}
}

// Searcher resolves values through the lookup collaborators. It holds no
// per-search state and is safe to reuse across a session.
type Searcher struct {
	bins     repository.BinLookup
	pallets  repository.PalletLookup
	products repository.ProductLookup
}

// NewSearcher creates a searcher over the given lookups
func NewSearcher(bins repository.BinLookup, pallets repository.PalletLookup, products repository.ProductLookup) *Searcher {
	return &Searcher{bins: bins, pallets: pallets, products: products}
}

// Search resolves value against the task's searchable fields in their
// configured priority order and returns the first field on which at least
// one currently-eligible candidate action matches.
//
// The candidate set follows the same stage precedence as the validator's
// next-action walk, then the active filter narrows it. Resolution is
// two-phase: resolve the entity per field, then match candidates on that
// field, so an ambiguous code (bin vs pallet) resolves by field priority
// instead of asking the operator to disambiguate.
func (s *Searcher) Search(ctx context.Context, value string, t *task.Task, filter *Filter) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return failed("nothing to search for")
	}
	fields := t.Type().SearchFields()
	if len(fields) == 0 {
		return failed("task type declares no searchable fields")
	}

	candidates := ordering.CandidateActions(t)
	if len(candidates) == 0 {
		return notFound("all actions are completed")
	}
	if filter != nil {
		candidates = filter.Apply(candidates)
		if len(candidates) == 0 {
			return notFound("no actions matching current filters")
		}
	}

	for _, field := range fields {
		entity, err := s.resolve(ctx, field, value)
		if err != nil {
			return failed(fmt.Sprintf("lookup failed for %s: %v", field, err))
		}
		if entity == nil {
			continue
		}
		ids := matchCandidates(candidates, field, entity.EntityID())
		if len(ids) > 0 {
			return found(field, entity, ids)
		}
	}
	return notFound(fmt.Sprintf("no eligible action matches %q", value))
}

// resolve turns the raw value into an entity for one field's domain, or
// (nil, nil) when the value does not belong to that domain
func (s *Searcher) resolve(ctx context.Context, field model.FactActionField, value string) (stock.Entity, error) {
	switch field {
	case model.FieldStorageBin, model.FieldPlacementBin:
		b, err := s.bins.ResolveByCode(ctx, value)
		if err != nil || b == nil {
			return nil, err
		}
		return b, nil
	case model.FieldStoragePallet, model.FieldPlacementPallet:
		p, err := s.pallets.ResolveByCode(ctx, value)
		if err != nil || p == nil {
			return nil, err
		}
		return p, nil
	case model.FieldStorageProduct:
		p, err := s.products.ResolveByBarcode(ctx, value)
		if err != nil {
			return nil, err
		}
		if p == nil {
			p, err = s.products.ResolveByCode(ctx, value)
			if err != nil {
				return nil, err
			}
		}
		if p == nil {
			return nil, nil
		}
		return p, nil
	case model.FieldStorageProductClassifier:
		c, err := s.products.ResolveClassifier(ctx, value)
		if err != nil || c == nil {
			return nil, err
		}
		return c, nil
	default:
		// Quantity is not a searchable domain
		return nil, nil
	}
}

func matchCandidates(candidates []*task.PlannedAction, field model.FactActionField, entityID string) []model.ActionID {
	var ids []model.ActionID
	for _, a := range candidates {
		if id, ok := a.TargetEntityID(field); ok && id == entityID {
			ids = append(ids, a.ID())
		}
	}
	return ids
}
