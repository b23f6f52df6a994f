package mediator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"respite/app/model"
)

const (
	maxMessageLength     = 2000
	maxHistoryLength     = 10_000
	maxToolboxEntries    = 15
	maxToolboxTextLength = 500
)

// validate checks and normalizes the inbound payload. Checks run in a fixed
// order and the first violation short-circuits with a field-specific
// message; there is no lenient partial acceptance. The body-size ceiling is
// enforced upstream by the HTTP layer before JSON parsing.
func validate(p *model.AIRequestPayload) *APIError {
	if !p.EnergyLevel.Valid() {
		return invalidField(fmt.Sprintf(
			"energyLevel must be one of %q, %q, %q",
			model.EnergyRunningLow, model.EnergyHoldingSteady, model.EnergyIveGotThis))
	}

	if !p.RequestType.Valid() {
		return invalidField(fmt.Sprintf(
			"requestType must be one of %q, %q, %q, %q",
			model.RequestInitial, model.RequestAnother, model.RequestFollowUp, model.RequestTimerFollowUp))
	}

	p.CaregiverMessage = strings.TrimSpace(p.CaregiverMessage)
	if p.CaregiverMessage == "" {
		return invalidField("caregiverMessage must not be empty")
	}
	if utf8.RuneCountInString(p.CaregiverMessage) > maxMessageLength {
		return invalidField(fmt.Sprintf("caregiverMessage must be at most %d characters", maxMessageLength))
	}

	if utf8.RuneCountInString(p.ConversationHistory) > maxHistoryLength {
		return invalidField(fmt.Sprintf("conversationHistory must be at most %d characters", maxHistoryLength))
	}

	if len(p.ToolboxEntries) > maxToolboxEntries {
		return invalidField(fmt.Sprintf("toolboxEntries must contain at most %d entries", maxToolboxEntries))
	}
	for i, entry := range p.ToolboxEntries {
		if utf8.RuneCountInString(entry.Text) > maxToolboxTextLength {
			return invalidField(fmt.Sprintf(
				"toolboxEntries[%d].text must be at most %d characters", i, maxToolboxTextLength))
		}
	}

	return nil
}
