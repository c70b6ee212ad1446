package parsing

import (
	"github.com/xeipuuv/gojsonschema"
)

// validateAgainstSchema checks data against the JSON Schema registered
// for schemaID, the same xeipuuv/gojsonschema library the pack uses
// wherever it validates structured LLM output (goadesign-goa-ai,
// open-policy-agent-eopa, teradata-labs-loom, vvoland-cagent).
func validateAgainstSchema(entry *schemaEntry, data map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(entry.asMap)
	docLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &schemaValidationError{errs: msgs}
	}
	return nil
}

type schemaValidationError struct {
	errs []string
}

func (e *schemaValidationError) Error() string {
	msg := "schema validation failed"
	for _, m := range e.errs {
		msg += "; " + m
	}
	return msg
}
