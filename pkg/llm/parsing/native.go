package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ralbench/ralbench/pkg/models"
)

// nativeParserType names this decorator in raised parserExceptions.
const nativeParserType = "native"

// nativeDecorator wraps a Client whose provider supports server-side
// JSON-schema constrained decoding (OpenAI's gpt-family models).
type nativeDecorator struct {
	base       Client
	providerID string
}

func (d *nativeDecorator) ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error) {
	schemaID, ok := schemaIDFromOptions(options)
	if !ok {
		return nil, newParserException(nativeParserType, d.providerID, model, stageSchemaValidation, "", errMissingSchemaID)
	}
	entry, err := lookupSchema(schemaID)
	if err != nil {
		return nil, newParserException(nativeParserType, d.providerID, model, stageSchemaValidation, schemaID, err)
	}

	reqOptions := cloneOptions(options)
	reqOptions["response_format"] = map[string]interface{}{
		"type": "json_schema",
		"json_schema": map[string]interface{}{
			"name":   schemaID,
			"schema": entry.asMap,
			"strict": true,
		},
	}
	if _, set := optBoolOK(reqOptions, "logprobs"); !set {
		reqOptions["logprobs"] = true
	}

	resp, err := d.base.ChatCompletion(ctx, model, messages, reqOptions)
	if err != nil {
		return nil, err
	}

	if isBlank(resp.Content) && resp.StructuredData == nil {
		return nil, newParserException(nativeParserType, d.providerID, model, stageResponseEmpty, resp.Content, nil)
	}

	structured := resp.StructuredData
	if structured == nil {
		structured = decodeJSONObject(resp.Content)
		if structured == nil {
			return nil, newParserException(nativeParserType, d.providerID, model, stageStructuredDataMissing, resp.Content, nil)
		}
	}

	if err := validateAgainstSchema(entry, structured); err != nil {
		return nil, newParserException(nativeParserType, d.providerID, model, stageSchemaValidation, resp.Content, err)
	}

	resp.StructuredData = structured
	return resp, nil
}

func decodeJSONObject(content string) map[string]interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &m); err != nil {
		return nil
	}
	return m
}

func cloneOptions(options map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(options)+2)
	for k, v := range options {
		out[k] = v
	}
	return out
}

func optBoolOK(options map[string]interface{}, key string) (bool, bool) {
	v, ok := options[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
