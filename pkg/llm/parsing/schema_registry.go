package parsing

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// DirectAnswer is the output shape the "none" reasoning strategy asks
// for: a single free-form answer, no reasoning trace.
type DirectAnswer struct {
	Answer string `json:"answer" jsonschema:"required,description=The final answer to the question"`
}

// ChainOfThought is the output shape the "chain_of_thought" (and
// "self_consistency", which reuses the same schema per sample) reasoning
// strategies ask for.
type ChainOfThought struct {
	Answer    string `json:"answer" jsonschema:"required,description=The final answer to the question"`
	Reasoning string `json:"reasoning" jsonschema:"required,description=Step-by-step reasoning that led to the answer"`
}

const (
	schemaIDDirectAnswer   = "direct_answer"
	schemaIDChainOfThought = "chain_of_thought"
)

var schemaRegistry = buildSchemaRegistry()

// schemaEntry holds the JSON-Schema-as-map form used in provider request
// bodies; validation builds a gojsonschema loader from asMap on each call.
type schemaEntry struct {
	schemaID string
	asMap    map[string]interface{}
}

func buildSchemaRegistry() map[string]*schemaEntry {
	return map[string]*schemaEntry{
		schemaIDDirectAnswer:   mustBuildEntry(schemaIDDirectAnswer, reflectSchema[DirectAnswer]()),
		schemaIDChainOfThought: mustBuildEntry(schemaIDChainOfThought, reflectSchema[ChainOfThought]()),
	}
}

func mustBuildEntry(schemaID string, m map[string]interface{}) *schemaEntry {
	return &schemaEntry{schemaID: schemaID, asMap: m}
}

// reflectSchema reflects a Go struct into a JSON Schema document, the
// same reflector configuration the example pack's one structured-output
// consumer (kadirpekel-hector's functiontool package) uses: inline
// definitions, no $schema/$id noise, required fields taken from
// jsonschema struct tags.
func reflectSchema[T any]() map[string]interface{} {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(T))

	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("parsing: reflect schema: %v", err))
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		panic(fmt.Sprintf("parsing: decode reflected schema: %v", err))
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}

// lookupSchema returns the registered schema for schemaID, or an error if
// no reasoning strategy has registered one. The error itself is plain;
// the decorators wrap it in a schema_validation parserException, so a
// misconfigured `_internal_output_schema_id` option surfaces as a
// PARSING_ERROR.
func lookupSchema(schemaID string) (*schemaEntry, error) {
	entry, ok := schemaRegistry[schemaID]
	if !ok {
		return nil, fmt.Errorf("parsing: unknown output schema id %q", schemaID)
	}
	return entry, nil
}
