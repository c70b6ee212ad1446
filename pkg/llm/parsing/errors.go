package parsing

import (
	"errors"
	"fmt"

	"github.com/ralbench/ralbench/pkg/models"
)

// maxTechnicalContentLen is the truncation bound spec.md §4.7 puts on the
// raw content a ParserException's technical details carry.
const maxTechnicalContentLen = 200

// toFailureReason translates err into a models.FailureReason. Every
// parserException maps to category=PARSING_ERROR, recoverable=false per
// spec.md §4.7, regardless of which stage raised it: a parsing failure
// is a per-question outcome, never fatal and never retried as-is.
// Anything else this package didn't raise itself falls back to
// FailureUnknown. pkg/llm's own provider errors are classified by
// llm.AsFailureReason instead (this package cannot import pkg/llm, which
// imports this package for its decorators).
func toFailureReason(err error) *models.FailureReason {
	var pe *parserException
	if errors.As(err, &pe) {
		description := fmt.Sprintf("%s failed at %s", pe.parserType, pe.stage)
		details := fmt.Sprintf("parserType=%s provider=%s model=%s stage=%s content=%q",
			pe.parserType, pe.providerID, pe.modelName, pe.stage, truncateContent(pe.content, maxTechnicalContentLen))
		if pe.cause != nil {
			details += fmt.Sprintf(" originalError=%q", pe.cause.Error())
		}
		return models.NewFailureReason(models.FailureParsingError, description, details, false)
	}

	return models.NewFailureReason(models.FailureUnknown, "unclassified error from LLM client", err.Error(), true)
}

func truncateContent(content string, max int) string {
	if len(content) <= max {
		return content
	}
	return content[:max]
}

// ToFailureReason is the exported entry point callers outside this
// package (pkg/orchestrator) use to classify an error returned from a
// Decorator, whether it's one of this package's own parserExceptions or
// an upstream error passed through unchanged.
func ToFailureReason(err error) *models.FailureReason {
	return toFailureReason(err)
}
