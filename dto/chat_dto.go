package dto

import "github.com/healthinsights/health-insights-backend/models"

const SessionIdHeader = "X-Session-ID"

type ChatResponse struct {
	Message           *string `json:"message"`
	HasActiveAnalysis bool    `json:"has_active_analysis"`
}

func AdaptChatResponse(result models.ChatResult) ChatResponse {
	return ChatResponse{
		Message:           result.Message,
		HasActiveAnalysis: result.HasActiveAnalysis,
	}
}
