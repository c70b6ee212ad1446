// Package parsing implements the three structured-output decorators
// (native, post_process, constrained) that sit between the LLM client
// factory and the Reasoning Strategy layer. Each decorator wraps an
// underlying Client and guarantees its ParsedResponse.StructuredData
// conforms to the schema named by the "_internal_output_schema_id"
// option, raising a parserException (translated to a FailureReason by
// errors.go) on any failure along the way.
package parsing

import (
	"context"
	"errors"
	"strings"

	"github.com/ralbench/ralbench/pkg/config"
	"github.com/ralbench/ralbench/pkg/models"
)

// errMissingSchemaID is the cause every decorator raises when
// OptionSchemaID is absent from the call's options map.
var errMissingSchemaID = errors.New("options missing " + OptionSchemaID)

// OptionSchemaID is the options map key a Reasoning Strategy sets to name
// the output schema its caller expects back. It is never forwarded to any
// external provider request body.
const OptionSchemaID = "_internal_output_schema_id"

// Client is the minimal interface a decorator wraps and, in turn,
// implements, deliberately declared locally instead of imported from
// pkg/llm so this package has no dependency on it (pkg/llm's factory
// imports pkg/llm/parsing, not the other way around). Any pkg/llm.Client
// satisfies this interface structurally.
type Client interface {
	ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error)
}

// Decorator is a Client that additionally guarantees its ParsedResponse
// carries validated StructuredData. It's the same interface as Client;
// the alias exists purely so call sites read as "give me a decorated,
// schema-enforcing client" rather than "give me any client".
type Decorator = Client

// Wrap builds the decorator named by strategy around base. providerID
// identifies the provider base talks to, carried onto any parserException
// the decorator raises so errors.go can report it.
func Wrap(base Client, strategy config.ParsingStrategyType, providerID string) (Decorator, error) {
	switch strategy {
	case config.ParsingStrategyNative:
		return &nativeDecorator{base: base, providerID: providerID}, nil
	case config.ParsingStrategyPostProcess:
		return &postProcessDecorator{base: base, providerID: providerID}, nil
	case config.ParsingStrategyConstrained:
		return &constrainedDecorator{base: base, providerID: providerID}, nil
	default:
		return nil, models.NewValidationError("parsingStrategy", "unsupported parsing strategy: "+string(strategy))
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func schemaIDFromOptions(options map[string]interface{}) (string, bool) {
	v, ok := options[OptionSchemaID]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
