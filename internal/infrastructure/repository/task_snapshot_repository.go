// Package repository loads the task snapshot a terminal session operates
// on. The snapshot is a YAML document produced by the download pipeline;
// loading is strict: any unknown enum code or dangling reference aborts the
// session instead of running with undefined ordering semantics.
package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/stock"
	"github.com/warelabs/taskterm/internal/domain/model/task"
)

// ErrSnapshotInvalid marks structural load errors. They are fatal for the
// task session; the wizard must not be constructed over a broken plan.
var ErrSnapshotInvalid = errors.New("task snapshot is invalid")

// TaskSnapshotRepository reads task snapshots from a filesystem
type TaskSnapshotRepository struct {
	fs afero.Fs
}

// NewTaskSnapshotRepository creates a snapshot repository over the given
// filesystem
func NewTaskSnapshotRepository(fs afero.Fs) *TaskSnapshotRepository {
	return &TaskSnapshotRepository{fs: fs}
}

// Load reads and validates a task snapshot file
func (r *TaskSnapshotRepository) Load(path string) (*task.Task, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot failed: %w", err)
	}
	var doc snapshotDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	return doc.toDomain()
}

type snapshotDoc struct {
	Task      taskDoc       `yaml:"task"`
	Templates []templateDoc `yaml:"templates"`
	Plan      []actionDoc   `yaml:"plan"`
	Facts     []factDoc     `yaml:"facts"`
}

type taskDoc struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Status string      `yaml:"status"`
	Type   taskTypeDoc `yaml:"type"`
}

type taskTypeDoc struct {
	ID                        string   `yaml:"id"`
	Name                      string   `yaml:"name"`
	RegularOrdering           string   `yaml:"regularOrdering"`
	SearchFields              []string `yaml:"searchFields"`
	AllowCompleteWithoutFacts bool     `yaml:"allowCompleteWithoutFacts"`
}

type templateDoc struct {
	ID                  string    `yaml:"id"`
	Name                string    `yaml:"name"`
	AllowMultipleFacts  bool      `yaml:"allowMultipleFacts"`
	AllowManualComplete bool      `yaml:"allowManualComplete"`
	Steps               []stepDoc `yaml:"steps"`
}

type stepDoc struct {
	ID                 string       `yaml:"id"`
	Title              string       `yaml:"title"`
	Field              string       `yaml:"field"`
	Required           bool         `yaml:"required"`
	Buffer             string       `yaml:"buffer"`
	AutoAdvance        bool         `yaml:"autoAdvance"`
	AutoAdvanceConfirm bool         `yaml:"autoAdvanceConfirm"`
	Rules              []ruleDoc    `yaml:"rules"`
	Commands           []commandDoc `yaml:"commands"`
}

type ruleDoc struct {
	Type     string   `yaml:"type"`
	Message  string   `yaml:"message"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
	Pattern  string   `yaml:"pattern"`
	Endpoint string   `yaml:"endpoint"`
}

type commandDoc struct {
	ID                   string         `yaml:"id"`
	Title                string         `yaml:"title"`
	Endpoint             string         `yaml:"endpoint"`
	Order                int            `yaml:"order"`
	Display              string         `yaml:"display"`
	Behavior             string         `yaml:"behavior"`
	ConfirmationRequired bool           `yaml:"confirmationRequired"`
	Parameters           []parameterDoc `yaml:"parameters"`
}

type parameterDoc struct {
	Name      string   `yaml:"name"`
	Label     string   `yaml:"label"`
	Type      string   `yaml:"type"`
	Required  bool     `yaml:"required"`
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	MaxLength int      `yaml:"maxLength"`
	Pattern   string   `yaml:"pattern"`
	Options   []string `yaml:"options"`
}

type actionDoc struct {
	ID       string     `yaml:"id"`
	Order    int        `yaml:"order"`
	Stage    string     `yaml:"stage"`
	Template string     `yaml:"template"`
	Quantity *float64   `yaml:"quantity"`
	Skipped  bool       `yaml:"skipped"`
	Targets  targetsDoc `yaml:"targets"`
}

type targetsDoc struct {
	StorageBin        *binDoc        `yaml:"storageBin"`
	StoragePallet     *palletDoc     `yaml:"storagePallet"`
	StorageProduct    *productDoc    `yaml:"storageProduct"`
	ProductClassifier *classifierDoc `yaml:"productClassifier"`
	PlacementBin      *binDoc        `yaml:"placementBin"`
	PlacementPallet   *palletDoc     `yaml:"placementPallet"`
}

type binDoc struct {
	ID   string `yaml:"id"`
	Code string `yaml:"code"`
	Zone string `yaml:"zone"`
}

type palletDoc struct {
	ID   string `yaml:"id"`
	Code string `yaml:"code"`
}

type productDoc struct {
	ID         string   `yaml:"id"`
	Code       string   `yaml:"code"`
	Name       string   `yaml:"name"`
	Barcodes   []string `yaml:"barcodes"`
	Classifier string   `yaml:"classifier"`
}

type classifierDoc struct {
	ID   string `yaml:"id"`
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type factDoc struct {
	ID              string      `yaml:"id"`
	Action          string      `yaml:"action"`
	Quantity        *float64    `yaml:"quantity"`
	Product         *productDoc `yaml:"product"`
	Pallet          *palletDoc  `yaml:"pallet"`
	Bin             *binDoc     `yaml:"bin"`
	PlacementBin    *binDoc     `yaml:"placementBin"`
	PlacementPallet *palletDoc  `yaml:"placementPallet"`
	StartedAt       time.Time   `yaml:"startedAt"`
	CompletedAt     time.Time   `yaml:"completedAt"`
}

func (doc *snapshotDoc) toDomain() (*task.Task, error) {
	templates := make([]*task.ActionTemplate, 0, len(doc.Templates))
	for _, t := range doc.Templates {
		tpl, err := t.toDomain()
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}

	status, err := model.ParseTaskStatus(doc.Task.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	ordering, err := model.ParseOrderingPolicy(doc.Task.Type.RegularOrdering)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	searchFields := make([]model.FactActionField, 0, len(doc.Task.Type.SearchFields))
	for _, f := range doc.Task.Type.SearchFields {
		field, err := model.ParseFactActionField(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
		}
		searchFields = append(searchFields, field)
	}
	taskType, err := task.NewTaskType(
		doc.Task.Type.ID, doc.Task.Type.Name, ordering, searchFields,
		doc.Task.Type.AllowCompleteWithoutFacts, templates,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}

	plan := make([]*task.PlannedAction, 0, len(doc.Plan))
	for _, a := range doc.Plan {
		action, err := a.toDomain(taskType)
		if err != nil {
			return nil, err
		}
		plan = append(plan, action)
	}

	facts := make([]*task.FactAction, 0, len(doc.Facts))
	for _, f := range doc.Facts {
		fact, err := f.toDomain()
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}

	taskID, err := model.NewTaskIDFromString(doc.Task.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	t, err := task.NewTask(taskID, doc.Task.Name, status, taskType, plan, facts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	return t, nil
}

func (doc *templateDoc) toDomain() (*task.ActionTemplate, error) {
	steps := make([]*task.StepTemplate, 0, len(doc.Steps))
	for _, s := range doc.Steps {
		step, err := s.toDomain()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	tpl, err := task.NewActionTemplate(doc.ID, doc.Name, doc.AllowMultipleFacts, doc.AllowManualComplete, steps)
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", ErrSnapshotInvalid, doc.ID, err)
	}
	return tpl, nil
}

func (doc *stepDoc) toDomain() (*task.StepTemplate, error) {
	stepID, err := model.NewStepIDFromString(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	field, err := model.ParseFactActionField(doc.Field)
	if err != nil {
		return nil, fmt.Errorf("%w: step %s: %v", ErrSnapshotInvalid, doc.ID, err)
	}
	buffer := model.BufferNever
	if doc.Buffer != "" {
		buffer, err = model.ParseBufferUsage(doc.Buffer)
		if err != nil {
			return nil, fmt.Errorf("%w: step %s: %v", ErrSnapshotInvalid, doc.ID, err)
		}
	}

	rules := make([]*task.ValidationRule, 0, len(doc.Rules))
	for _, r := range doc.Rules {
		rt := task.RuleType(r.Type)
		if !rt.IsValid() {
			return nil, fmt.Errorf("%w: step %s: unknown rule type %q", ErrSnapshotInvalid, doc.ID, r.Type)
		}
		rules = append(rules, &task.ValidationRule{
			Type: rt, Message: r.Message, Min: r.Min, Max: r.Max,
			Pattern: r.Pattern, Endpoint: r.Endpoint,
		})
	}

	commands := make([]*task.StepCommand, 0, len(doc.Commands))
	for _, c := range doc.Commands {
		cmd, err := c.toDomain()
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}

	step, err := task.NewStepTemplate(stepID, doc.Title, field, doc.Required, rules, buffer, doc.AutoAdvance, doc.AutoAdvanceConfirm, commands)
	if err != nil {
		return nil, fmt.Errorf("%w: step %s: %v", ErrSnapshotInvalid, doc.ID, err)
	}
	return step, nil
}

func (doc *commandDoc) toDomain() (*task.StepCommand, error) {
	display, err := model.ParseDisplayCondition(doc.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: command %s: %v", ErrSnapshotInvalid, doc.ID, err)
	}
	behavior, err := model.ParseExecutionBehavior(doc.Behavior)
	if err != nil {
		return nil, fmt.Errorf("%w: command %s: %v", ErrSnapshotInvalid, doc.ID, err)
	}
	params := make([]*task.CommandParameter, 0, len(doc.Parameters))
	for _, p := range doc.Parameters {
		pt, err := model.ParseParameterType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: command %s: %v", ErrSnapshotInvalid, doc.ID, err)
		}
		params = append(params, &task.CommandParameter{
			Name: p.Name, Label: p.Label, Type: pt, Required: p.Required,
			MinValue: p.Min, MaxValue: p.Max, MaxLength: p.MaxLength,
			Pattern: p.Pattern, Options: p.Options,
		})
	}
	return &task.StepCommand{
		ID: doc.ID, Title: doc.Title, Endpoint: doc.Endpoint, Order: doc.Order,
		Display: display, Behavior: behavior,
		ConfirmationRequired: doc.ConfirmationRequired, Parameters: params,
	}, nil
}

func (doc *actionDoc) toDomain(taskType *task.TaskType) (*task.PlannedAction, error) {
	actionID, err := model.NewActionIDFromString(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	stage, err := model.ParseCompletionStage(doc.Stage)
	if err != nil {
		return nil, fmt.Errorf("%w: action %s: %v", ErrSnapshotInvalid, doc.ID, err)
	}
	tpl, ok := taskType.Template(doc.Template)
	if !ok {
		return nil, fmt.Errorf("%w: action %s references unknown template %q", ErrSnapshotInvalid, doc.ID, doc.Template)
	}

	var planned *model.Quantity
	if doc.Quantity != nil {
		q, err := model.NewQuantity(*doc.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: action %s: %v", ErrSnapshotInvalid, doc.ID, err)
		}
		planned = &q
	}

	action, err := task.NewPlannedAction(actionID, doc.Order, stage, tpl, doc.Targets.toDomain(), planned)
	if err != nil {
		return nil, fmt.Errorf("%w: action %s: %v", ErrSnapshotInvalid, doc.ID, err)
	}
	if doc.Skipped {
		action.MarkSkipped()
	}
	return action, nil
}

func (doc targetsDoc) toDomain() task.Targets {
	return task.Targets{
		StorageBin:        doc.StorageBin.toDomain(),
		StoragePallet:     doc.StoragePallet.toDomain(),
		StorageProduct:    doc.StorageProduct.toDomain(),
		ProductClassifier: doc.ProductClassifier.toDomain(),
		PlacementBin:      doc.PlacementBin.toDomain(),
		PlacementPallet:   doc.PlacementPallet.toDomain(),
	}
}

func (doc *binDoc) toDomain() *stock.Bin {
	if doc == nil {
		return nil
	}
	return &stock.Bin{ID: doc.ID, Code: doc.Code, Zone: doc.Zone}
}

func (doc *palletDoc) toDomain() *stock.Pallet {
	if doc == nil {
		return nil
	}
	return &stock.Pallet{ID: doc.ID, Code: doc.Code}
}

func (doc *productDoc) toDomain() *stock.Product {
	if doc == nil {
		return nil
	}
	return &stock.Product{ID: doc.ID, Code: doc.Code, Name: doc.Name, Barcodes: doc.Barcodes, ClassifierID: doc.Classifier}
}

func (doc *classifierDoc) toDomain() *stock.ProductClassifier {
	if doc == nil {
		return nil
	}
	return &stock.ProductClassifier{ID: doc.ID, Code: doc.Code, Name: doc.Name}
}

func (doc *factDoc) toDomain() (*task.FactAction, error) {
	factID, err := model.NewFactIDFromString(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	actionID, err := model.NewActionIDFromString(doc.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: fact %s: %v", ErrSnapshotInvalid, doc.ID, err)
	}
	var q *model.Quantity
	if doc.Quantity != nil {
		qty, err := model.NewQuantity(*doc.Quantity)
		if err != nil {
			return nil, fmt.Errorf("%w: fact %s: %v", ErrSnapshotInvalid, doc.ID, err)
		}
		q = &qty
	}
	return task.ReconstructFactAction(
		factID, actionID,
		doc.Product.toDomain(), doc.Pallet.toDomain(), doc.Bin.toDomain(),
		doc.PlacementBin.toDomain(), doc.PlacementPallet.toDomain(),
		q, doc.StartedAt, doc.CompletedAt,
	), nil
}
