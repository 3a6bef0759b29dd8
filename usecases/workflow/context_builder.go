package workflow

import (
	"fmt"
	"strings"

	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/pure_utils"
)

const contextHistoryTurns = 5

// BuildContext renders the conversation memory and the new message as the user content of an LLM call.
// It returns an empty string when the state holds none of them.
func BuildContext(state *models.WorkflowState) string {
	var parts []string

	if len(state.ConversationHistory) > 0 {
		recent := pure_utils.Last(state.ConversationHistory, contextHistoryTurns)
		lines := []string{"CONVERSATION HISTORY:"}
		for i, turn := range recent {
			lines = append(lines,
				fmt.Sprintf("  Turn %d:", i+1),
				"    User: "+turn.InputTextSnippet,
				"    Assistant: "+turn.ResponseSnippet,
			)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	if len(state.Analysis) > 0 {
		latest := state.Analysis[len(state.Analysis)-1]
		parts = append(parts, strings.Join([]string{
			"PREVIOUS DOCUMENT ANALYSIS: " + latest.Filename,
			"  • Clinical Findings: " + latest.ClinicalAnalysis,
			"  • Risk Flags: " + formatRisks(latest.RiskAssessment),
		}, "\n"))
	}

	if state.HasText() {
		parts = append(parts, "NEW MESSAGE FROM USER:\n  \""+state.InputText+"\"")
	}

	return strings.Join(parts, "\n\n")
}

func formatRisks(risks []string) string {
	if len(risks) == 0 {
		return "None"
	}
	return strings.Join(risks, ", ")
}
