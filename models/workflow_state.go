package models

import (
	"strings"
	"time"
)

// Route is the routing flag a workflow node leaves in the state for the next conditional edge.
type Route string

const (
	RouteNone           Route = ""
	RouteQna            Route = "qna"
	RouteDocPipeline    Route = "doc_pipeline"
	RouteDocThenQna     Route = "doc_then_qna"
	RoutePiiRemoval     Route = "pii_removal"
	RouteRiskAssessment Route = "risk_assessment"
	RouteCompliance     Route = "compliance"
	RouteEnd            Route = "end"
)

// WorkflowState is the in-memory state passed from node to node during one chat request.
type WorkflowState struct {
	SessionId string    `json:"session_id"`
	InputText string    `json:"input_text,omitempty"`
	FileMeta  *FileMeta `json:"file_meta,omitempty"`
	FileBytes []byte    `json:"-"`
	NextNode  Route     `json:"next_node,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"last_updated"`

	ConversationHistory []ConversationTurn `json:"conversation_history"`
	Analysis            []AnalysisEntry    `json:"analysis"`

	// document pipeline outputs
	ParsedText       string   `json:"parsed_text,omitempty"`
	CleanedText      string   `json:"cleaned_text,omitempty"`
	ClinicalAnalysis string   `json:"clinical_analysis,omitempty"`
	RiskAssessment   []string `json:"risk_assessment,omitempty"`
	InsightSummary   string   `json:"insight_summary,omitempty"`

	QnaAnswer             string `json:"qna_answer,omitempty"`
	PreComplianceResponse string `json:"pre_compliance_response,omitempty"`
	FinalResponse         string `json:"final_response,omitempty"`
}

func (s *WorkflowState) HasText() bool {
	return strings.TrimSpace(s.InputText) != ""
}

func (s *WorkflowState) HasFile() bool {
	return s.FileMeta != nil
}

func (s *WorkflowState) Filename() string {
	if s.FileMeta == nil || s.FileMeta.Filename == "" {
		return "unknown.pdf"
	}
	return s.FileMeta.Filename
}
