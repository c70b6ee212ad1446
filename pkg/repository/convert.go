// Package repository is the persistence layer: one repository per
// aggregate (Benchmark, Evaluation, EvaluationQuestionResult), each
// translating between the ent-generated rows and pkg/models domain types
// at its boundary, the same way pkg/services did for the teacher's
// AlertSession/Stage/AgentExecution aggregates.
package repository

import (
	"encoding/json"
	"fmt"

	"github.com/ralbench/ralbench/pkg/models"
)

// toJSONMap round-trips v through JSON to get the map[string]interface{}
// shape ent's JSON columns store, mirroring the mcp_selection conversion
// in the teacher's SessionService.CreateSession.
func toJSONMap(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal as map: %w", err)
	}
	return m, nil
}

func fromJSONMap(m map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal: %w", err)
	}
	return nil
}

func agentConfigToJSON(cfg models.AgentConfig) (map[string]interface{}, error) {
	return toJSONMap(cfg)
}

func agentConfigFromJSON(m map[string]interface{}) (models.AgentConfig, error) {
	var cfg models.AgentConfig
	err := fromJSONMap(m, &cfg)
	return cfg, err
}

func failureReasonToJSON(reason *models.FailureReason) (map[string]interface{}, error) {
	return toJSONMap(reason)
}

func failureReasonFromJSON(m map[string]interface{}) (*models.FailureReason, error) {
	if m == nil {
		return nil, nil
	}
	var reason models.FailureReason
	if err := fromJSONMap(m, &reason); err != nil {
		return nil, err
	}
	return &reason, nil
}

func reasoningTraceToJSON(trace *models.ReasoningTrace) (map[string]interface{}, error) {
	return toJSONMap(trace)
}

func reasoningTraceFromJSON(m map[string]interface{}) (*models.ReasoningTrace, error) {
	if m == nil {
		return nil, nil
	}
	var trace models.ReasoningTrace
	if err := fromJSONMap(m, &trace); err != nil {
		return nil, err
	}
	return &trace, nil
}
