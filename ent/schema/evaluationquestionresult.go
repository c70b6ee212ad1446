package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// EvaluationQuestionResult holds the schema definition for the
// EvaluationQuestionResult entity — one row per question processed within
// an Evaluation.
type EvaluationQuestionResult struct {
	ent.Schema
}

// Fields of the EvaluationQuestionResult.
func (EvaluationQuestionResult) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("evaluation_id").
			Immutable(),
		field.String("question_id").
			Immutable(),
		field.Text("question_text").
			Comment("Denormalized snapshot so results remain readable if the source question changes"),
		field.Text("expected_answer"),
		field.Text("actual_answer").
			Optional().
			Nillable(),
		field.Bool("is_correct").
			Optional().
			Nillable(),
		field.Int("execution_time_ms").
			Optional().
			Nillable(),
		field.JSON("reasoning_trace", map[string]interface{}{}).
			Optional().
			Nillable(),
		field.String("error_message").
			Optional().
			Nillable(),
		field.Time("processed_at").
			Default(time.Now),
	}
}

// Edges of the EvaluationQuestionResult.
func (EvaluationQuestionResult) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("evaluation", Evaluation.Type).
			Ref("question_results").
			Field("evaluation_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the EvaluationQuestionResult.
func (EvaluationQuestionResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("evaluation_id"),
		index.Fields("evaluation_id", "question_id").
			Unique(),
	}
}
