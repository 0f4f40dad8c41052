package orchestrator

import "github.com/jonesrussell/veracity/internal/domain"

// Assemble composes the final response. Pure data composition, no I/O.
// The gate decision belongs to the caller; Assemble only enforces the
// invariant that a FAKE verdict never carries social context.
func Assemble(
	classification *domain.ClassificationResult,
	explanation domain.Explanation,
	context []domain.SocialPost,
	searchTerm string,
) *domain.AggregatedResponse {
	if classification.Label == domain.LabelFake {
		context = nil
		searchTerm = ""
	}
	if context == nil {
		context = []domain.SocialPost{}
	}

	return &domain.AggregatedResponse{
		Classification: *classification,
		Explanation:    explanation,
		SocialContext:  context,
		SearchTerm:     searchTerm,
	}
}
