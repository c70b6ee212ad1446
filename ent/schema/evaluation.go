package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Evaluation holds the schema definition for the Evaluation entity.
type Evaluation struct {
	ent.Schema
}

// Fields of the Evaluation.
func (Evaluation) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("benchmark_id").
			Immutable(),
		field.JSON("agent_config", map[string]interface{}{}).
			Comment("Snapshot of strategyId/model/provider/parser/params at creation time"),
		field.Enum("status").
			Values("pending", "running", "completed", "failed", "interrupted").
			Default("pending"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.JSON("failure_reason", map[string]interface{}{}).
			Optional().
			Nillable().
			Comment("Set only when status=failed; {category, description, technical_details, occurred_at, recoverable}"),
	}
}

// Edges of the Evaluation.
func (Evaluation) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("benchmark", Benchmark.Type).
			Ref("evaluations").
			Field("benchmark_id").
			Unique().
			Required().
			Immutable(),
		edge.To("question_results", EvaluationQuestionResult.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Evaluation.
func (Evaluation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status"),
		index.Fields("benchmark_id"),
	}
}
