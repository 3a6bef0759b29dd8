package models

import "time"

const (
	InputSnippetMaxLength    = 200
	ResponseSnippetMaxLength = 400
)

type ConversationTurn struct {
	Timestamp        time.Time `json:"timestamp"`
	InputTextSnippet string    `json:"input_text_snippet"`
	ResponseSnippet  string    `json:"response_snippet"`
}

type AnalysisEntry struct {
	Filename         string    `json:"filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
	ClinicalAnalysis string    `json:"clinical_analysis"`
	RiskAssessment   []string  `json:"risk_assessment"`
}

type UploadRecord struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	ArchiveKey  string    `json:"archive_key,omitempty"`
}

// Session is the conversation memory kept in redis between two chat requests.
type Session struct {
	SessionId           string             `json:"session_id"`
	CreatedAt           time.Time          `json:"created_at"`
	LastActive          time.Time          `json:"last_active"`
	ConversationHistory []ConversationTurn `json:"conversation_history"`
	Analysis            []AnalysisEntry    `json:"analysis"`
	UploadHistory       []UploadRecord     `json:"upload_history"`
	HasActiveAnalysis   bool               `json:"has_active_analysis"`
	MessageCount        int                `json:"message_count"`
	UploadCount         int                `json:"upload_count"`
}

func NewSession(sessionId string, now time.Time) Session {
	return Session{
		SessionId:           sessionId,
		CreatedAt:           now,
		LastActive:          now,
		ConversationHistory: []ConversationTurn{},
		Analysis:            []AnalysisEntry{},
		UploadHistory:       []UploadRecord{},
	}
}

// Normalize replaces nil lists, which can come from older payloads, with empty ones.
func (s *Session) Normalize() {
	if s.ConversationHistory == nil {
		s.ConversationHistory = []ConversationTurn{}
	}
	if s.Analysis == nil {
		s.Analysis = []AnalysisEntry{}
	}
	if s.UploadHistory == nil {
		s.UploadHistory = []UploadRecord{}
	}
}

// LatestAnalysis returns the most recent document analysis of the session, if any.
func (s Session) LatestAnalysis() (AnalysisEntry, bool) {
	if len(s.Analysis) == 0 {
		return AnalysisEntry{}, false
	}
	return s.Analysis[len(s.Analysis)-1], true
}
