package predict

import "github.com/pkg/errors"

// ErrScorerUnavailable marks a scorer failure or malformed scorer output.
// It is recovered inside the engine by degrading to dictionary and context
// candidates; it never surfaces to suggestion callers. Kept distinct from
// the garbage gate so telemetry can tell "model down" from "input rejected".
var ErrScorerUnavailable = errors.New("scorer unavailable")

// TokenProb pairs a vocabulary token text with its probability.
type TokenProb struct {
	Text        string
	Probability float64
}

// Scorer is the external statistical language model. It owns its own
// vocabulary and encoding; this engine only sees the resulting
// distribution. Calls are blocking and CPU-bound.
type Scorer interface {
	// TopK returns the k most probable next tokens for text at the given
	// sampling temperature, highest probability first.
	TopK(text string, k int, temperature float64) ([]TokenProb, error)
}

// DisabledScorer is a Scorer for deployments with no model attached, for
// example before the mobile runtime has delivered one. Every call reports
// ErrScorerUnavailable, so the engine serves dictionary and context
// candidates only.
type DisabledScorer struct{}

// TopK always fails with ErrScorerUnavailable.
func (DisabledScorer) TopK(string, int, float64) ([]TokenProb, error) {
	return nil, ErrScorerUnavailable
}
