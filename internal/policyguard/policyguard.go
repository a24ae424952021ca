// Package policyguard classifies directive occurrences against the
// spec.md §7 error taxonomy using an embedded rego policy, grounded on the
// teacher's internal/policy.Engine (rego.New / PreparedEvalQuery over a
// structured JSON Input). Classification is diagnostic only: it never
// changes which edits internal/expand produces, only what gets logged or
// surfaced as a warning alongside them.
package policyguard

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

//go:embed directive.rego
var policyFS embed.FS

// Occurrence describes one directive sighting for classification.
type Occurrence struct {
	Kind                   string `json:"kind"` // "autoarg" or "autoinst"
	Bound                  bool   `json:"bound"`
	ModuleFound            bool   `json:"module_found"`
	ModuleDeclarationCount int    `json:"module_declaration_count"`
	TemplateParseError     bool   `json:"template_parse_error"`
}

// Verdict is the classification result for one Occurrence.
type Verdict struct {
	Classification string `json:"classification"`
	Severity       string `json:"severity"`
}

// Guard evaluates Occurrences against the embedded policy.
type Guard struct {
	query rego.PreparedEvalQuery
}

// New loads and prepares the embedded directive-classification policy.
func New() (*Guard, error) {
	content, err := policyFS.ReadFile("directive.rego")
	if err != nil {
		return nil, fmt.Errorf("reading embedded policy: %w", err)
	}

	query, err := rego.New(
		rego.Module("directive.rego", string(content)),
		rego.Query("{\"classification\": data.autoexpand.directives.classification, \"severity\": data.autoexpand.directives.severity}"),
	).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing policy query: %w", err)
	}

	return &Guard{query: query}, nil
}

// Classify evaluates a single Occurrence.
func (g *Guard) Classify(ctx context.Context, occ Occurrence) (Verdict, error) {
	inputMap, err := toMap(occ)
	if err != nil {
		return Verdict{}, fmt.Errorf("marshaling occurrence: %w", err)
	}

	rs, err := g.query.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return Verdict{}, fmt.Errorf("evaluating policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return Verdict{Classification: "ok", Severity: "none"}, nil
	}

	values, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Verdict{Classification: "ok", Severity: "none"}, nil
	}

	return Verdict{
		Classification: str(values, "classification"),
		Severity:       str(values, "severity"),
	}, nil
}

func toMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func str(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
