package parsing

import "fmt"

// stage names a parserException's point of failure; errors.go's
// FailureReason mapper renders it into the description and technical
// details (every stage maps to the same category). Values are wire strings,
// not free-form Go identifiers: they appear verbatim in descriptions and
// are grepped for in per-question errorMessage rows.
type stage string

const (
	stageResponseEmpty         stage = "response_empty"
	stageJSONParse             stage = "json_parse"
	stageSchemaValidation      stage = "schema_validation"
	stageStructuredDataMissing stage = "structured_data_missing"
)

// parserException is the unexported error type every decorator raises on
// failure. The decorators return it unchanged as ChatCompletion's error;
// callers outside this package cannot inspect its fields and classify it
// with ToFailureReason (errors.go), which yields a models.FailureReason.
// It carries everything the error-translation boundary needs to render a
// description and technical details without re-deriving context the
// decorator already had in hand.
type parserException struct {
	parserType string // "native", "post_process", "constrained"
	providerID string
	modelName  string
	stage      stage
	content    string // raw provider content implicated in the failure
	cause      error
}

func (e *parserException) Error() string {
	msg := fmt.Sprintf("%s failed at %s", e.parserType, e.stage)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *parserException) Unwrap() error {
	return e.cause
}

func newParserException(parserType, providerID, modelName string, s stage, content string, cause error) *parserException {
	return &parserException{
		parserType: parserType,
		providerID: providerID,
		modelName:  modelName,
		stage:      s,
		content:    content,
		cause:      cause,
	}
}
