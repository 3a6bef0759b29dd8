package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/pure_utils"
	"github.com/healthinsights/health-insights-backend/utils"
)

const (
	NodeOrchestrator     = "orchestrator"
	NodeDocumentParser   = "document_parser"
	NodePiiRemoval       = "pii_removal"
	NodeClinicalAnalysis = "clinical_analysis"
	NodeRiskAssessment   = "risk_assessment"
	NodeInsightsSummary  = "insights_summary"
	NodeQna              = "qna"
	NodeCompliance       = "compliance"
)

const (
	MessageNoValidInput        = "No valid input provided."
	MessageNoFileContent       = "Error: No file content"
	MessageOffTopicDocument    = "The document does not appear to be health-related."
	MessageOffTopicUpload      = "Document uploaded is not health-related. Please provide health-related input for analysis."
	MessageOffTopicFallback    = "I can only help with health-related questions. Please ask about your health or upload a medical document."
	MessageQnaUnavailable      = "Sorry, I could not answer your question right now. Please try again later."
	messageDocumentParseError  = "An error occurred while processing the document: "
	messageDocumentAnalyzeFail = "An error occurred while analyzing the document: "

	offTopicLabel     = "OFF_TOPIC"
	errorLogMaxLength = 100
)

type llmRepository interface {
	Complete(ctx context.Context, request models.LlmRequest) (string, error)
}

type promptRepository interface {
	GetPrompt(ref models.PromptRef) (models.PromptConfig, error)
}

// Nodes holds the dependencies of the chat workflow steps.
type Nodes struct {
	llm     llmRepository
	prompts promptRepository
}

func NewNodes(llm llmRepository, prompts promptRepository) Nodes {
	return Nodes{llm: llm, prompts: prompts}
}

func (n Nodes) complete(ctx context.Context, ref models.PromptRef, user string) (string, error) {
	config, err := n.prompts.GetPrompt(ref)
	if err != nil {
		return "", err
	}
	return n.llm.Complete(ctx, models.NewLlmRequest(ref, config, user))
}

func isOffTopic(output string) bool {
	return strings.ToUpper(strings.TrimSpace(output)) == offTopicLabel
}

// Orchestrator decides which branch of the workflow handles the request.
func (n Nodes) Orchestrator(ctx context.Context, state *models.WorkflowState) error {
	logger := utils.LoggerFromContext(ctx)

	switch {
	case state.HasText() && !state.HasFile():
		result, err := n.complete(ctx, models.PromptOrchestratorClassification, BuildContext(state))
		if err != nil {
			logger.WarnContext(ctx, "message classification failed, answering it as a health question",
				"error", pure_utils.Truncate(err.Error(), errorLogMaxLength))
			state.NextNode = models.RouteQna
			return nil
		}
		logger.InfoContext(ctx, "message classified", "result", result)

		if !isOffTopic(result) {
			state.NextNode = models.RouteQna
			return nil
		}

		response, err := n.complete(ctx, models.PromptOrchestratorOffTopic,
			fmt.Sprintf("User message: '%s'", state.InputText))
		if err != nil {
			logger.WarnContext(ctx, "off topic response failed, using the default one",
				"error", pure_utils.Truncate(err.Error(), errorLogMaxLength))
			response = MessageOffTopicFallback
		}
		state.PreComplianceResponse = response
		state.NextNode = models.RouteEnd
	case state.HasFile() && !state.HasText():
		state.NextNode = models.RouteDocPipeline
	case state.HasFile() && state.HasText():
		state.NextNode = models.RouteDocThenQna
	default:
		state.PreComplianceResponse = MessageNoValidInput
		state.NextNode = models.RouteEnd
	}
	return nil
}

func RouteFromOrchestrator(state *models.WorkflowState) string {
	switch state.NextNode {
	case models.RouteDocPipeline, models.RouteDocThenQna:
		return NodeDocumentParser
	case models.RouteQna:
		return NodeQna
	default:
		return NodeCompliance
	}
}

func (n Nodes) DocumentParser(ctx context.Context, state *models.WorkflowState) error {
	logger := utils.LoggerFromContext(ctx)

	if len(state.FileBytes) == 0 {
		logger.ErrorContext(ctx, "no file content to parse")
		state.FinalResponse = MessageNoFileContent
		state.NextNode = models.RouteEnd
		return nil
	}

	logger.InfoContext(ctx, "parsing document", "filename", state.Filename())
	markdown, err := ExtractPdfMarkdown(state.FileBytes)
	if err != nil {
		logger.ErrorContext(ctx, "could not parse document", "error", pure_utils.Truncate(err.Error(), errorLogMaxLength))
		state.FinalResponse = messageDocumentParseError + err.Error()
		state.NextNode = models.RouteEnd
		return nil
	}

	logger.InfoContext(ctx, "document parsed", "characters", len(markdown))
	state.ParsedText = markdown
	state.NextNode = models.RoutePiiRemoval
	return nil
}

func RouteFromDocumentParser(state *models.WorkflowState) string {
	if state.NextNode == models.RoutePiiRemoval {
		return NodePiiRemoval
	}
	return END
}

func (n Nodes) PiiRemoval(ctx context.Context, state *models.WorkflowState) error {
	state.CleanedText = RedactPii(state.ParsedText)
	return nil
}

func (n Nodes) ClinicalAnalysis(ctx context.Context, state *models.WorkflowState) error {
	logger := utils.LoggerFromContext(ctx)

	text := state.CleanedText
	if strings.TrimSpace(text) == "" {
		text = state.ParsedText
	}

	result, err := n.complete(ctx, models.PromptClinicalAnalysis, text)
	if err != nil {
		logger.ErrorContext(ctx, "could not analyze document", "error", pure_utils.Truncate(err.Error(), errorLogMaxLength))
		state.FinalResponse = messageDocumentAnalyzeFail + err.Error()
		state.NextNode = models.RouteEnd
		return nil
	}

	if !isOffTopic(result) {
		logger.InfoContext(ctx, "document is health related, assessing risks")
		state.ClinicalAnalysis = result
		state.NextNode = models.RouteRiskAssessment
		return nil
	}

	state.ClinicalAnalysis = MessageOffTopicDocument
	state.InsightSummary = MessageOffTopicDocument
	if state.HasText() {
		logger.InfoContext(ctx, "document is not health related, answering the message")
		state.NextNode = models.RouteQna
		return nil
	}
	logger.InfoContext(ctx, "document is not health related and came without a message")
	state.PreComplianceResponse = MessageOffTopicUpload
	state.NextNode = models.RouteCompliance
	return nil
}

func RouteFromClinicalAnalysis(state *models.WorkflowState) string {
	switch state.NextNode {
	case models.RouteRiskAssessment:
		return NodeRiskAssessment
	case models.RouteQna:
		return NodeQna
	case models.RouteCompliance:
		return NodeCompliance
	default:
		return END
	}
}

func (n Nodes) RiskAssessment(ctx context.Context, state *models.WorkflowState) error {
	logger := utils.LoggerFromContext(ctx)

	output, err := n.complete(ctx, models.PromptRiskAssessment, state.ClinicalAnalysis)
	if err != nil {
		logger.WarnContext(ctx, "risk assessment failed, continuing without risk flags",
			"error", pure_utils.Truncate(err.Error(), errorLogMaxLength))
		state.RiskAssessment = []string{}
		return nil
	}

	risks, ok := ParseRisks(output)
	if !ok {
		logger.WarnContext(ctx, "risk assessment output is not a list of risks", "output", pure_utils.Truncate(output, errorLogMaxLength))
	}
	state.RiskAssessment = risks
	return nil
}

// InsightsSummary condenses the analysis. Without a question to answer, the summary itself is the reply.
func (n Nodes) InsightsSummary(ctx context.Context, state *models.WorkflowState) error {
	risks := formatRisks(state.RiskAssessment)
	state.InsightSummary = fmt.Sprintf("%s; Risks: %s", state.ClinicalAnalysis, risks)

	if state.HasText() {
		state.NextNode = models.RouteQna
		return nil
	}
	state.PreComplianceResponse = fmt.Sprintf("Analysis of %s:\n\n%s\n\nRisk flags: %s",
		state.Filename(), state.ClinicalAnalysis, risks)
	state.NextNode = models.RouteCompliance
	return nil
}

func RouteAfterInsights(state *models.WorkflowState) string {
	if state.NextNode == models.RouteQna {
		return NodeQna
	}
	return NodeCompliance
}

func (n Nodes) Qna(ctx context.Context, state *models.WorkflowState) error {
	logger := utils.LoggerFromContext(ctx)

	var parts []string
	if conversation := BuildContext(state); conversation != "" {
		parts = append(parts, conversation)
	}
	if state.InsightSummary != "" {
		parts = append(parts, "CURRENT DOCUMENT INSIGHTS:\n  "+state.InsightSummary)
	}

	answer, err := n.complete(ctx, models.PromptQna, strings.Join(parts, "\n\n"))
	if err != nil {
		logger.ErrorContext(ctx, "could not answer the question", "error", pure_utils.Truncate(err.Error(), errorLogMaxLength))
		answer = MessageQnaUnavailable
	}

	state.QnaAnswer = answer
	state.PreComplianceResponse = answer
	return nil
}

// Compliance produces the final response: personal data is redacted again and medical answers get the
// review disclaimer. A final response already set by an error path is kept as is.
func (n Nodes) Compliance(ctx context.Context, state *models.WorkflowState) error {
	if state.FinalResponse != "" {
		return nil
	}

	response := RedactPii(state.PreComplianceResponse)
	if response != "" && hasMedicalContent(state) {
		config, err := n.prompts.GetPrompt(models.PromptComplianceReview)
		switch {
		case err != nil:
			utils.LoggerFromContext(ctx).WarnContext(ctx, "compliance disclaimer unavailable", "error", err.Error())
		case strings.TrimSpace(config.System) != "":
			response += "\n\n" + strings.TrimSpace(config.System)
		}
	}

	state.FinalResponse = response
	return nil
}

func hasMedicalContent(state *models.WorkflowState) bool {
	if state.QnaAnswer != "" && state.QnaAnswer != MessageQnaUnavailable {
		return true
	}
	return state.ClinicalAnalysis != "" && state.ClinicalAnalysis != MessageOffTopicDocument
}
