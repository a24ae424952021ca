package editplan

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaFS embed.FS

// Validator checks Edit/CodeAction values against the embedded CUE schema
// before the facade hands them to a caller.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator loads the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded edit schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling edit schema: %w", schema.Err())
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

// ValidateEdits checks a flat edit list against #EditPlan.
func (v *Validator) ValidateEdits(edits []Edit) error {
	if edits == nil {
		edits = []Edit{}
	}
	return v.validate(struct {
		Edits []Edit `json:"edits"`
	}{Edits: edits}, "#EditPlan")
}

// ValidateCodeActions checks a code action list against #CodeActionPlan.
func (v *Validator) ValidateCodeActions(actions []CodeAction) error {
	if actions == nil {
		actions = []CodeAction{}
	}
	return v.validate(struct {
		Actions []CodeAction `json:"actions"`
	}{Actions: actions}, "#CodeActionPlan")
}

func (v *Validator) validate(data interface{}, defPath string) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling edit plan: %w", err)
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling edit plan as CUE: %w", dataValue.Err())
	}

	def := v.schema.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return fmt.Errorf("looking up %s definition: %w", defPath, def.Err())
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("edit plan failed schema validation: %w", err)
	}

	return nil
}
