// Package domain holds the data model shared across the veracity service.
package domain

import (
	"fmt"
	"math"
)

// Label is the binary verdict produced by the classifier.
type Label string

const (
	// LabelFake indicates the classifier judged the text not credible.
	LabelFake Label = "FAKE"
	// LabelReal indicates the classifier judged the text credible.
	LabelReal Label = "REAL"
)

// probabilityCount is the number of entries in a probability vector.
const probabilityCount = 2

// probSumEpsilon is the tolerance when checking that probabilities sum to 1.
const probSumEpsilon = 1e-3

// ClassificationResult is the verdict for one piece of input text.
// Probabilities is the ordered pair (P(FAKE), P(REAL)).
type ClassificationResult struct {
	Label         Label     `json:"label"`
	Confidence    float64   `json:"confidence"`
	Probabilities []float64 `json:"probs"`
	ModelVersion  string    `json:"model_version,omitempty"`
}

// Validate checks the structural invariants of a classification result.
func (r *ClassificationResult) Validate() error {
	if r.Label != LabelFake && r.Label != LabelReal {
		return fmt.Errorf("invalid label %q", r.Label)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range", r.Confidence)
	}
	if len(r.Probabilities) != probabilityCount {
		return fmt.Errorf("expected %d probabilities, got %d", probabilityCount, len(r.Probabilities))
	}

	sum := 0.0
	for _, p := range r.Probabilities {
		if p < 0 {
			return fmt.Errorf("negative probability %f", p)
		}
		sum += p
	}
	if math.Abs(sum-1) > probSumEpsilon {
		return fmt.Errorf("probabilities sum to %f, want 1", sum)
	}

	return nil
}
