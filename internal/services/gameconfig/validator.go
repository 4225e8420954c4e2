package gameconfig

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aulaplay/aulaplay-go/internal/model"
)

// Result is the outcome of validating a game config. Errors accumulate;
// validation never stops at the first violation so an authoring UI can show
// everything at once.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validator checks the structure of one game type's config payload
type Validator interface {
	Validate(config model.GameConfig) []string
}

// ValidatorFunc adapts a function to the Validator interface
type ValidatorFunc func(config model.GameConfig) []string

// Validate implements Validator
func (f ValidatorFunc) Validate(config model.GameConfig) []string {
	return f(config)
}

// Registry maps game types to their validators. Adding a new game type
// means registering a new validator, not editing a dispatcher.
type Registry struct {
	validators map[model.GameType]Validator
}

// NewRegistry creates a registry with all built-in game types registered
func NewRegistry() *Registry {
	r := &Registry{validators: make(map[model.GameType]Validator)}
	r.Register(model.GameTypeWordsearch, ValidatorFunc(validateWordsearch))
	r.Register(model.GameTypeHangman, ValidatorFunc(validateHangman))
	r.Register(model.GameTypeCrossword, ValidatorFunc(validateCrossword))
	r.Register(model.GameTypeMatching, ValidatorFunc(validateMatching))
	r.Register(model.GameTypeMultichoice, ValidatorFunc(validateMultichoice))
	r.Register(model.GameTypeBubbles, ValidatorFunc(validateBubbles))
	return r
}

// Register adds or replaces the validator for a game type
func (r *Registry) Register(t model.GameType, v Validator) {
	r.validators[t] = v
}

// Validate checks a config payload against the validator for its type. An
// unknown type is a validation failure listing the supported types, never a
// crash.
func (r *Registry) Validate(t model.GameType, config model.GameConfig) Result {
	v, ok := r.validators[t]
	if !ok {
		return Result{
			Valid:  false,
			Errors: []string{fmt.Sprintf("unknown game type %q, supported types: %s", t, strings.Join(r.SupportedTypes(), ", "))},
		}
	}

	errs := v.Validate(config)
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// SupportedTypes returns the registered type names in stable order
func (r *Registry) SupportedTypes() []string {
	types := make([]string, 0, len(r.validators))
	for t := range r.validators {
		types = append(types, string(t))
	}
	sort.Strings(types)
	return types
}
