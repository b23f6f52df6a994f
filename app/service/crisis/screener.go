package crisis

import (
	"regexp"
	"strings"
)

// Context classifies an urgent safety situation inferred from caregiver text.
type Context string

const (
	SelfHarm          Context = "self_harm"
	CaregiverHarmFear Context = "caregiver_harm_fear"
	MedicalEmergency  Context = "medical_emergency"
	PhysicalDanger    Context = "physical_danger"
	PanicAttack       Context = "panic_attack"
)

// rules are evaluated in order and the first match wins. The ordering is a
// safety policy, not an implementation detail: self-harm language must never
// be classified under a lower-priority category, and a false positive here
// costs far less than a false negative.
var rules = []struct {
	pattern *regexp.Regexp
	context Context
}{
	{
		regexp.MustCompile(`kill (myself|me)|suicid|end it all|end my life|(hurt|harm|cut) myself|want to die|don'?t want to (be here|live)|better off without me`),
		SelfHarm,
	},
	{
		regexp.MustCompile(`(afraid|scared|worried|terrified) (i|that i)('m going to| might| will|'ll)? ?(hurt|hit|shake|snap at)|might hurt (him|her|them|my)|losing control of myself|about to lose it with`),
		CaregiverHarmFear,
	},
	{
		regexp.MustCompile(`not breathing|can'?t breathe|unconscious|unresponsive|won'?t wake up|chest pain|seizure|seizing|overdose|choking|call 911|stroke|collapsed`),
		MedicalEmergency,
	},
	{
		regexp.MustCompile(`knife|weapon|gun|hitting me|hit me|being violent|attacked me|threw .{0,20}at me|threatening me`),
		PhysicalDanger,
	},
	{
		regexp.MustCompile(`panic attack|heart is (racing|pounding)|can'?t calm down|hyperventilat|shaking and can'?t stop|walls closing in`),
		PanicAttack,
	},
}

// Infer screens a caregiver message for crisis language. Pure and
// deterministic; runs client-side so a crisis banner can be shown even when
// the network call is slow or fails. Returns false when no group matches.
func Infer(message string) (Context, bool) {
	lower := strings.ToLower(message)

	for _, r := range rules {
		if r.pattern.MatchString(lower) {
			return r.context, true
		}
	}

	return "", false
}
