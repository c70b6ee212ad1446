package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion(id string) Question {
	return Question{ID: id, Text: "2+2?", ExpectedAnswer: "4"}
}

func TestBenchmark_Validate(t *testing.T) {
	tests := []struct {
		name    string
		b       Benchmark
		wantErr bool
	}{
		{
			name: "valid",
			b:    Benchmark{Name: "arithmetic", FormatVersion: "v1", Questions: []Question{validQuestion("q1")}},
		},
		{
			name:    "missing name",
			b:       Benchmark{FormatVersion: "v1", Questions: []Question{validQuestion("q1")}},
			wantErr: true,
		},
		{
			name:    "no questions",
			b:       Benchmark{Name: "arithmetic", FormatVersion: "v1"},
			wantErr: true,
		},
		{
			name:    "duplicate question ids",
			b:       Benchmark{Name: "arithmetic", FormatVersion: "v1", Questions: []Question{validQuestion("q1"), validQuestion("q1")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuestion_Validate(t *testing.T) {
	q := Question{}
	assert.Error(t, q.Validate())

	q = validQuestion("q1")
	assert.NoError(t, q.Validate())
}
