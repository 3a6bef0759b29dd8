package dto

import (
	"time"

	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/pure_utils"
)

type ConversationTurnDto struct {
	Timestamp        time.Time `json:"timestamp"`
	InputTextSnippet string    `json:"input_text_snippet"`
	ResponseSnippet  string    `json:"response_snippet"`
}

type AnalysisEntryDto struct {
	Filename         string    `json:"filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
	ClinicalAnalysis string    `json:"clinical_analysis"`
	RiskAssessment   []string  `json:"risk_assessment"`
}

// UploadRecordDto leaves out the archive key, which is internal to the deployment.
type UploadRecordDto struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type SessionDto struct {
	SessionId           string                `json:"session_id"`
	CreatedAt           time.Time             `json:"created_at"`
	LastActive          time.Time             `json:"last_active"`
	ConversationHistory []ConversationTurnDto `json:"conversation_history"`
	Analysis            []AnalysisEntryDto    `json:"analysis"`
	UploadHistory       []UploadRecordDto     `json:"upload_history"`
	HasActiveAnalysis   bool                  `json:"has_active_analysis"`
	MessageCount        int                   `json:"message_count"`
	UploadCount         int                   `json:"upload_count"`
}

func AdaptSessionDto(session models.Session) SessionDto {
	session.Normalize()
	return SessionDto{
		SessionId:  session.SessionId,
		CreatedAt:  session.CreatedAt,
		LastActive: session.LastActive,
		ConversationHistory: pure_utils.Map(session.ConversationHistory, func(turn models.ConversationTurn) ConversationTurnDto {
			return ConversationTurnDto(turn)
		}),
		Analysis: pure_utils.Map(session.Analysis, func(entry models.AnalysisEntry) AnalysisEntryDto {
			risks := entry.RiskAssessment
			if risks == nil {
				risks = []string{}
			}
			return AnalysisEntryDto{
				Filename:         entry.Filename,
				UploadedAt:       entry.UploadedAt,
				ClinicalAnalysis: entry.ClinicalAnalysis,
				RiskAssessment:   risks,
			}
		}),
		UploadHistory: pure_utils.Map(session.UploadHistory, func(record models.UploadRecord) UploadRecordDto {
			return UploadRecordDto{
				Filename:    record.Filename,
				ContentType: record.ContentType,
				Size:        record.Size,
				CreatedAt:   record.CreatedAt,
			}
		}),
		HasActiveAnalysis: session.HasActiveAnalysis,
		MessageCount:      session.MessageCount,
		UploadCount:       session.UploadCount,
	}
}
