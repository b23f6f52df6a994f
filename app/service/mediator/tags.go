package mediator

import (
	"log/slog"
	"regexp"
	"strings"

	"respite/app/model"
)

// The LLM is contracted to prefix every reply with one bracketed tag.
var tagPattern = regexp.MustCompile(`^\[\s*([A-Za-z_]+)\s*\]\s*`)

// parseTaggedResponse turns the raw LLM reply into a typed response. A
// missing tag must never fail the pipeline: the reply degrades to the
// least-alarming type, suggestion, and a diagnostic is logged. A
// well-formed but unrecognized tag also falls back to suggestion, keeping
// the full text so nothing the model said is silently dropped.
func parseTaggedResponse(raw string) (model.ResponseType, string) {
	trimmed := strings.TrimSpace(raw)

	m := tagPattern.FindStringSubmatch(trimmed)
	if m == nil {
		slog.Warn("LLM reply carried no response tag, treating as suggestion",
			"prefix", previewPrefix(trimmed))
		return model.ResponseSuggestion, trimmed
	}

	stripped := strings.TrimSpace(trimmed[len(m[0]):])

	switch strings.ToUpper(m[1]) {
	case "SUGGESTION":
		return model.ResponseSuggestion, stripped
	case "PAUSE":
		return model.ResponsePause, stripped
	case "CRISIS":
		return model.ResponseCrisis, stripped
	case "QUESTION":
		return model.ResponseQuestion, stripped
	case "OUT_OF_IDEAS":
		return model.ResponseOutOfIdeas, stripped
	default:
		return model.ResponseSuggestion, trimmed
	}
}

func previewPrefix(s string) string {
	const n = 40
	if len(s) <= n {
		return s
	}
	return s[:n]
}
