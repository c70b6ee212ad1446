package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Benchmark holds the schema definition for the Benchmark entity.
type Benchmark struct {
	ent.Schema
}

// Fields of the Benchmark.
func (Benchmark) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("name").
			Unique().
			NotEmpty(),
		field.Text("description").
			Optional(),
		field.String("format_version").
			Comment("Loader format this benchmark was parsed with, e.g. 'v1'"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Benchmark.
func (Benchmark) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("questions", Question.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		// Deliberately no cascade to Evaluation: a Benchmark referenced by
		// an Evaluation must not vanish out from under it. Ownership is
		// enforced in the repository layer, not the schema.
		edge.To("evaluations", Evaluation.Type),
	}
}

// Indexes of the Benchmark.
func (Benchmark) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name").Unique(),
	}
}
