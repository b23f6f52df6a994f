package mediator

import (
	"testing"

	"respite/app/model"

	"github.com/stretchr/testify/assert"
)

func TestParseTaggedResponse(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		wantType model.ResponseType
		wantText string
	}{
		{"suggestion", "[SUGGESTION] X", model.ResponseSuggestion, "X"},
		{"lowercase and padding", "[suggestion]   X  ", model.ResponseSuggestion, "X"},
		{"pause", "[PAUSE] Take a breath.", model.ResponsePause, "Take a breath."},
		{"crisis", "[CRISIS] Call for help now.", model.ResponseCrisis, "Call for help now."},
		{"question", "[QUESTION] Has she eaten today?", model.ResponseQuestion, "Has she eaten today?"},
		{"out of ideas", "[OUT_OF_IDEAS] I have nothing more.", model.ResponseOutOfIdeas, "I have nothing more."},
		{"mixed case tag", "[Out_Of_Ideas] done", model.ResponseOutOfIdeas, "done"},
		{"whitespace inside brackets", "[ PAUSE ] rest", model.ResponsePause, "rest"},
		{"no tag at all", "X", model.ResponseSuggestion, "X"},
		{"no tag multiline", "Try a walk.\nIt often helps.", model.ResponseSuggestion, "Try a walk.\nIt often helps."},
		{"unknown tag keeps full text", "[UNKNOWN] X", model.ResponseSuggestion, "[UNKNOWN] X"},
		{"empty reply", "", model.ResponseSuggestion, ""},
		{"tag mid-string is not a tag", "I think [PAUSE] fits here", model.ResponseSuggestion, "I think [PAUSE] fits here"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotType, gotText := parseTaggedResponse(tc.raw)
			assert.Equal(t, tc.wantType, gotType)
			assert.Equal(t, tc.wantText, gotText)
		})
	}
}
