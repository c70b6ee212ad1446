package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Question holds the schema definition for the Question entity. Questions
// are normalized children of a Benchmark rather than an embedded JSON list
// so that sequence, text, and metadata remain independently queryable.
type Question struct {
	ent.Schema
}

// Fields of the Question.
func (Question) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("benchmark_id").
			Immutable(),
		field.Int("sequence").
			Comment("Position within the benchmark: 0, 1, 2..."),
		field.Text("text"),
		field.Text("expected_answer"),
		field.JSON("metadata", map[string]interface{}{}).
			Optional(),
	}
}

// Edges of the Question.
func (Question) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("benchmark", Benchmark.Type).
			Ref("questions").
			Field("benchmark_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Question.
func (Question) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("benchmark_id", "sequence").
			Unique(),
	}
}
