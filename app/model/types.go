package model

// EnergyLevel is the caregiver's self-reported capacity right now.
type EnergyLevel string

const (
	EnergyRunningLow    EnergyLevel = "running_low"
	EnergyHoldingSteady EnergyLevel = "holding_steady"
	EnergyIveGotThis    EnergyLevel = "ive_got_this"
)

func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyRunningLow, EnergyHoldingSteady, EnergyIveGotThis:
		return true
	}
	return false
}

// RequestType tells the suggestion engine why the caregiver is asking.
type RequestType string

const (
	RequestInitial       RequestType = "initial"
	RequestAnother       RequestType = "another"
	RequestFollowUp      RequestType = "follow_up"
	RequestTimerFollowUp RequestType = "timer_follow_up"
)

func (r RequestType) Valid() bool {
	switch r {
	case RequestInitial, RequestAnother, RequestFollowUp, RequestTimerFollowUp:
		return true
	}
	return false
}

// ResponseType classifies an assistant reply. The LLM self-tags every
// reply with one of these; anything unparseable degrades to Suggestion.
type ResponseType string

const (
	ResponseSuggestion ResponseType = "suggestion"
	ResponsePause      ResponseType = "pause"
	ResponseCrisis     ResponseType = "crisis"
	ResponseQuestion   ResponseType = "question"
	ResponseOutOfIdeas ResponseType = "out_of_ideas"
)

// ToolboxEntryPayload is the wire form of one toolbox entry inside a
// suggestion request. SavedAt is an ISO-8601 timestamp string.
type ToolboxEntryPayload struct {
	Text    string `json:"text"`
	SavedAt string `json:"savedAt"`
}

// AIRequestPayload is the inbound body of POST /suggest.
type AIRequestPayload struct {
	EnergyLevel         EnergyLevel           `json:"energyLevel"`
	RequestType         RequestType           `json:"requestType"`
	CaregiverMessage    string                `json:"caregiverMessage"`
	ToolboxEntries      []ToolboxEntryPayload `json:"toolboxEntries,omitempty"`
	ConversationHistory string                `json:"conversationHistory,omitempty"`
	DeviceID            string                `json:"deviceId,omitempty"`
}

// AIResponse is the outbound body of POST /suggest on success.
type AIResponse struct {
	Suggestion       string       `json:"suggestion"`
	ResponseType     ResponseType `json:"responseType"`
	RateLimitWarning bool         `json:"rateLimitWarning,omitempty"`
}
