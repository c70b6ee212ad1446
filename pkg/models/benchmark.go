package models

import "time"

// Benchmark is an immutable-after-creation aggregate root: a named,
// ordered sequence of Questions.
type Benchmark struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	FormatVersion string     `json:"formatVersion"`
	Questions     []Question `json:"questions"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Validate checks the invariants a Benchmark must satisfy before it can be
// persisted: a non-empty unique name, at least one question, and no
// duplicate question IDs.
func (b *Benchmark) Validate() error {
	if b.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if b.FormatVersion == "" {
		return NewValidationError("formatVersion", "must not be empty")
	}
	if len(b.Questions) == 0 {
		return NewValidationError("questions", "a benchmark must contain at least one question")
	}

	seen := make(map[string]bool, len(b.Questions))
	for i := range b.Questions {
		q := &b.Questions[i]
		if err := q.Validate(); err != nil {
			return err
		}
		if seen[q.ID] {
			return NewValidationError("questions", "duplicate question id: "+q.ID)
		}
		seen[q.ID] = true
	}

	return nil
}
