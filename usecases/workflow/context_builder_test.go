package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/healthinsights/health-insights-backend/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildContext(&models.WorkflowState{}))
	assert.Equal(t, "", BuildContext(&models.WorkflowState{InputText: "   "}))
}

func TestBuildContextMessageOnly(t *testing.T) {
	got := BuildContext(&models.WorkflowState{InputText: "What does LDL mean?"})
	assert.Equal(t, "NEW MESSAGE FROM USER:\n  \"What does LDL mean?\"", got)
}

func TestBuildContextKeepsLastTurnsAndLatestAnalysis(t *testing.T) {
	var history []models.ConversationTurn
	for i := 1; i <= 7; i++ {
		history = append(history, models.ConversationTurn{
			Timestamp:        time.Now(),
			InputTextSnippet: fmt.Sprintf("question %d", i),
			ResponseSnippet:  fmt.Sprintf("answer %d", i),
		})
	}
	state := &models.WorkflowState{
		InputText:           "And now?",
		ConversationHistory: history,
		Analysis: []models.AnalysisEntry{
			{Filename: "old.pdf", ClinicalAnalysis: "old findings", RiskAssessment: []string{"old risk"}},
			{Filename: "new.pdf", ClinicalAnalysis: "Elevated LDL", RiskAssessment: []string{"High cholesterol", "Hypertension"}},
		},
	}

	expected := "CONVERSATION HISTORY:\n" +
		"  Turn 1:\n    User: question 3\n    Assistant: answer 3\n" +
		"  Turn 2:\n    User: question 4\n    Assistant: answer 4\n" +
		"  Turn 3:\n    User: question 5\n    Assistant: answer 5\n" +
		"  Turn 4:\n    User: question 6\n    Assistant: answer 6\n" +
		"  Turn 5:\n    User: question 7\n    Assistant: answer 7\n" +
		"\n" +
		"PREVIOUS DOCUMENT ANALYSIS: new.pdf\n" +
		"  • Clinical Findings: Elevated LDL\n" +
		"  • Risk Flags: High cholesterol, Hypertension\n" +
		"\n" +
		"NEW MESSAGE FROM USER:\n  \"And now?\""
	assert.Equal(t, expected, BuildContext(state))
}

func TestBuildContextAnalysisWithoutRisks(t *testing.T) {
	state := &models.WorkflowState{
		Analysis: []models.AnalysisEntry{{Filename: "report.pdf", ClinicalAnalysis: "Normal", RiskAssessment: []string{}}},
	}
	assert.Contains(t, BuildContext(state), "  • Risk Flags: None")
}
