// Package filter lets a search run restrict which enumerated grids get
// compiled and executed at all (a boolean expression over grid metadata)
// and lets a user observe every hang verdict through a small scripting
// hook, mirroring the "dump/formatting" external collaborator spec.md §1
// names without specifying.
package filter

import (
	"github.com/hashicorp/go-bexpr"
)

// CandidateMeta is the metadata a CandidateFilter expression is evaluated
// against. Field names are exposed to expressions via their bexpr tag.
type CandidateMeta struct {
	Width      int `bexpr:"width"`
	Height     int `bexpr:"height"`
	NoopCount  int `bexpr:"noop_count"`
	DataCount  int `bexpr:"data_count"`
	TurnCount  int `bexpr:"turn_count"`
}

// CandidateFilter evaluates a boolean expression over CandidateMeta,
// letting a user scope a search to e.g. `data_count > 2 and width <= 8`
// without recompiling.
type CandidateFilter struct {
	eval *bexpr.Evaluator
}

// NewCandidateFilter compiles expr. An empty expr matches every candidate.
func NewCandidateFilter(expr string) (*CandidateFilter, error) {
	if expr == "" {
		return &CandidateFilter{}, nil
	}
	eval, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, err
	}
	return &CandidateFilter{eval: eval}, nil
}

// Matches reports whether meta satisfies the compiled expression. A filter
// built from an empty expression matches everything.
func (f *CandidateFilter) Matches(meta CandidateMeta) (bool, error) {
	if f.eval == nil {
		return true, nil
	}
	return f.eval.Evaluate(meta)
}
