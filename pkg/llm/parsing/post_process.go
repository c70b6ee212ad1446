package parsing

import (
	"context"
	"encoding/json"

	"github.com/ralbench/ralbench/pkg/models"
)

// postProcessParserType names this decorator in raised parserExceptions.
const postProcessParserType = "post_process"

// postProcessDecorator wraps a Client whose provider has no native
// structured-output mode. The prompt is sent unchanged (the Reasoning
// Strategy's text is never altered with schema instructions) and
// structuredData is recovered from the free-form response afterward.
type postProcessDecorator struct {
	base       Client
	providerID string
}

func (d *postProcessDecorator) ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error) {
	schemaID, ok := schemaIDFromOptions(options)
	if !ok {
		return nil, newParserException(postProcessParserType, d.providerID, model, stageSchemaValidation, "", errMissingSchemaID)
	}
	entry, err := lookupSchema(schemaID)
	if err != nil {
		return nil, newParserException(postProcessParserType, d.providerID, model, stageSchemaValidation, schemaID, err)
	}

	resp, err := d.base.ChatCompletion(ctx, model, messages, options)
	if err != nil {
		return nil, err
	}

	if isBlank(resp.Content) {
		return nil, newParserException(postProcessParserType, d.providerID, model, stageResponseEmpty, resp.Content, nil)
	}

	structured, extractErr := extractJSONObject(resp.Content)
	if extractErr != nil {
		return nil, newParserException(postProcessParserType, d.providerID, model, stageJSONParse, resp.Content, extractErr)
	}

	if err := validateAgainstSchema(entry, structured); err != nil {
		return nil, newParserException(postProcessParserType, d.providerID, model, stageSchemaValidation, resp.Content, err)
	}

	resp.StructuredData = structured
	return resp, nil
}

// extractJSONObject recovers a JSON object from free-form model output.
// It first tries a direct json.Unmarshal of the trimmed content; failing
// that, it walks the string tracking brace depth to find the first
// balanced {...} substring (not a regex: regex cannot correctly match
// nested braces) and retries on that substring.
func extractJSONObject(content string) (map[string]interface{}, error) {
	var direct map[string]interface{}
	if err := json.Unmarshal([]byte(content), &direct); err == nil {
		return direct, nil
	}

	substr, ok := firstBalancedObject(content)
	if !ok {
		return nil, errNoJSONObjectFound
	}

	var extracted map[string]interface{}
	if err := json.Unmarshal([]byte(substr), &extracted); err != nil {
		return nil, err
	}
	return extracted, nil
}

var errNoJSONObjectFound = jsonObjectNotFoundError{}

type jsonObjectNotFoundError struct{}

func (jsonObjectNotFoundError) Error() string { return "no balanced JSON object found in content" }

// firstBalancedObject scans content for the first top-level balanced
// {...} substring, tracking brace depth and skipping over braces that
// appear inside string literals.
func firstBalancedObject(content string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range content {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					return content[start : i+1], true
				}
			}
		}
	}
	return "", false
}
