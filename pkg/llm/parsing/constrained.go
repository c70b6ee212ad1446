package parsing

import (
	"context"

	"github.com/ralbench/ralbench/pkg/models"
)

// constrainedOptionKey is the option a constrainedDecorator sets, named
// after the "guided JSON" field self-hosted OpenAI-compatible inference
// servers (vLLM, TGI) use for grammar-constrained decoding. The provider
// clients in pkg/llm do not put this option on the wire (they forward
// only the keys listed on Client), so the schema is enforced solely by
// the validation this decorator runs on the response.
const constrainedOptionKey = "guided_json"

// constrainedParserType names this decorator in raised parserExceptions.
const constrainedParserType = "constrained"

// constrainedDecorator wraps a Client for providers (typically
// open-source models served through OpenRouter) that get no
// response_format; it sets constrainedOptionKey and validates the
// response against the schema.
type constrainedDecorator struct {
	base       Client
	providerID string
}

func (d *constrainedDecorator) ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error) {
	schemaID, ok := schemaIDFromOptions(options)
	if !ok {
		return nil, newParserException(constrainedParserType, d.providerID, model, stageSchemaValidation, "", errMissingSchemaID)
	}
	entry, err := lookupSchema(schemaID)
	if err != nil {
		return nil, newParserException(constrainedParserType, d.providerID, model, stageSchemaValidation, schemaID, err)
	}

	reqOptions := cloneOptions(options)
	reqOptions[constrainedOptionKey] = entry.asMap

	resp, err := d.base.ChatCompletion(ctx, model, messages, reqOptions)
	if err != nil {
		return nil, err
	}

	if isBlank(resp.Content) && resp.StructuredData == nil {
		return nil, newParserException(constrainedParserType, d.providerID, model, stageResponseEmpty, resp.Content, nil)
	}

	structured := resp.StructuredData
	if structured == nil {
		structured, err = extractJSONObject(resp.Content)
		if err != nil {
			return nil, newParserException(constrainedParserType, d.providerID, model, stageJSONParse, resp.Content, err)
		}
	}

	if err := validateAgainstSchema(entry, structured); err != nil {
		return nil, newParserException(constrainedParserType, d.providerID, model, stageSchemaValidation, resp.Content, err)
	}

	resp.StructuredData = structured
	return resp, nil
}
