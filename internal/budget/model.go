// Package budget models the performance-budget thresholds handed to
// external auditing tools. The pipeline loads, merges, and emits them;
// scoring happens elsewhere.
package budget

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// budgetFilePerm is the mode for a written budget file.
const budgetFilePerm = 0o644

// Sentinel errors for budget validation.
var (
	// ErrInvalidScore indicates a category score outside [0, 1].
	ErrInvalidScore = errors.New("budget score must be between 0 and 1")
	// ErrInvalidRuns indicates a non-positive run count.
	ErrInvalidRuns = errors.New("budget runs must be positive")
)

// Scores holds the minimum acceptable category scores, each in [0, 1].
type Scores struct {
	Performance   float64 `yaml:"performance"`
	Accessibility float64 `yaml:"accessibility"`
	BestPractices float64 `yaml:"best-practices"`
	SEO           float64 `yaml:"seo"`
}

// Budget is the threshold document consumed by the audit runner.
type Budget struct {
	Runs   int      `yaml:"runs"`
	URLs   []string `yaml:"urls,omitempty"`
	Scores Scores   `yaml:"scores"`
}

// Default returns the thresholds used when no budget file exists.
func Default() Budget {
	return Budget{
		Runs: 3,
		Scores: Scores{
			Performance:   0.7,
			Accessibility: 0.9,
			BestPractices: 0.9,
			SEO:           0.9,
		},
	}
}

// Validate checks threshold invariants.
func (b Budget) Validate() error {
	if b.Runs < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidRuns, b.Runs)
	}

	for _, score := range []float64{
		b.Scores.Performance,
		b.Scores.Accessibility,
		b.Scores.BestPractices,
		b.Scores.SEO,
	} {
		if score < 0 || score > 1 {
			return fmt.Errorf("%w: got %v", ErrInvalidScore, score)
		}
	}

	return nil
}

// Load reads a budget file. A missing file yields the defaults.
func Load(path string) (Budget, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return Default(), nil
		}

		return Budget{}, fmt.Errorf("read budget %s: %w", path, readErr)
	}

	budget := Default()

	unmarshalErr := yaml.Unmarshal(data, &budget)
	if unmarshalErr != nil {
		return Budget{}, fmt.Errorf("parse budget %s: %w", path, unmarshalErr)
	}

	validateErr := budget.Validate()
	if validateErr != nil {
		return Budget{}, validateErr
	}

	return budget, nil
}

// Write serializes the budget to path.
func Write(path string, budget Budget) error {
	validateErr := budget.Validate()
	if validateErr != nil {
		return validateErr
	}

	data, marshalErr := yaml.Marshal(budget)
	if marshalErr != nil {
		return fmt.Errorf("marshal budget: %w", marshalErr)
	}

	writeErr := os.WriteFile(path, data, budgetFilePerm)
	if writeErr != nil {
		return fmt.Errorf("write budget %s: %w", path, writeErr)
	}

	return nil
}
