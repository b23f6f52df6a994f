package prompt

import (
	"fmt"
	"strings"
	"time"

	"respite/app/model"

	"github.com/elliotchance/pie/v2"
)

// maxToolboxEntries bounds how many toolbox entries reach the LLM. The
// newest entries matter most, so older ones are cut first.
const maxToolboxEntries = 15

// Build renders the structured context prompt sent to the LLM as the user
// message. Section order is fixed: the model is sensitive to it. The
// function is total and deterministic; identical payloads produce
// byte-identical output, and missing optional fields degrade to "(none)".
func Build(p model.AIRequestPayload) string {
	var b strings.Builder

	b.WriteString("[Context]\n")
	fmt.Fprintf(&b, "Energy: %s\n", p.EnergyLevel)
	fmt.Fprintf(&b, "Request: %s\n", p.RequestType)
	b.WriteString("Toolbox:\n")
	b.WriteString(toolboxSection(p.ToolboxEntries))
	b.WriteString("\n[Conversation History]\n")
	b.WriteString(historySection(p.ConversationHistory))
	b.WriteString("\n[Caregiver]\n")
	b.WriteString(p.CaregiverMessage)

	return b.String()
}

func toolboxSection(entries []model.ToolboxEntryPayload) string {
	if len(entries) == 0 {
		return "(none)"
	}

	if len(entries) > maxToolboxEntries {
		entries = entries[len(entries)-maxToolboxEntries:]
	}

	lines := pie.Map(pie.Reverse(entries), func(e model.ToolboxEntryPayload) string {
		return fmt.Sprintf("- %q (saved: %s)", e.Text, savedDate(e.SavedAt))
	})

	return strings.Join(lines, "\n")
}

func historySection(history string) string {
	if strings.TrimSpace(history) == "" {
		return "(none)"
	}

	return history
}

func savedDate(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}

	return t.Format("2006-01-02")
}
