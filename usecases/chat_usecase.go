package usecases

import (
	"context"
	"strings"

	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/pure_utils"
	"github.com/healthinsights/health-insights-backend/repositories"
	"github.com/healthinsights/health-insights-backend/repositories/clock"
	"github.com/healthinsights/health-insights-backend/utils"
)

type workflowRunner interface {
	Invoke(ctx context.Context, state *models.WorkflowState) (*models.WorkflowState, error)
}

type ChatUsecase struct {
	sessionUsecase SessionUsecase
	fileValidator  FileValidator
	workflow       workflowRunner
	blobRepository repositories.BlobRepository
	clock          clock.Clock
}

// HandleChat runs one conversation turn: the workflow answers the message and/or analyzes the document,
// then the session memory is updated with the outcome.
func (u ChatUsecase) HandleChat(ctx context.Context, input models.ChatInput) (models.ChatResult, error) {
	hasMessage := strings.TrimSpace(input.Message) != ""
	hasFile := input.File != nil
	if !hasMessage && !hasFile {
		utils.MetricChatRequests.WithLabelValues("invalid").Inc()
		return models.ChatResult{}, models.ErrMissingChatInput
	}

	if hasFile {
		if ok, reason := u.fileValidator.Validate(input.File.Meta.Filename, input.File.Bytes); !ok {
			utils.MetricChatRequests.WithLabelValues("invalid").Inc()
			return models.ChatResult{}, models.UserFacingError(reason, models.BadParameterError)
		}
	}

	session, err := u.sessionUsecase.GetOrCreateSession(ctx, input.SessionId)
	if err != nil {
		return models.ChatResult{}, err
	}
	ctx = utils.WithSessionId(ctx, session.SessionId)

	locked, unlock, err := u.sessionUsecase.LockSession(ctx, session)
	if err != nil {
		return models.ChatResult{SessionId: session.SessionId}, err
	}
	defer unlock()
	session = locked

	now := u.clock.Now()
	state := &models.WorkflowState{
		SessionId:           session.SessionId,
		InputText:           input.Message,
		CreatedAt:           now,
		UpdatedAt:           now,
		ConversationHistory: session.ConversationHistory,
		Analysis:            session.Analysis,
	}
	if hasFile {
		meta := input.File.Meta
		meta.Size = len(input.File.Bytes)
		state.FileMeta = &meta
		state.FileBytes = input.File.Bytes
	}

	state, err = u.workflow.Invoke(ctx, state)
	if err != nil {
		utils.MetricChatRequests.WithLabelValues("error").Inc()
		return models.ChatResult{SessionId: session.SessionId}, err
	}

	session = u.recordTurn(ctx, session, input, state)
	if err := u.sessionUsecase.SaveSession(ctx, session); err != nil {
		utils.MetricChatRequests.WithLabelValues("error").Inc()
		return models.ChatResult{SessionId: session.SessionId}, err
	}

	utils.MetricChatRequests.WithLabelValues("success").Inc()
	return models.ChatResult{
		SessionId:         session.SessionId,
		Message:           pure_utils.NilIfEmpty(state.FinalResponse),
		HasActiveAnalysis: session.HasActiveAnalysis,
	}, nil
}

func (u ChatUsecase) recordTurn(
	ctx context.Context,
	session models.Session,
	input models.ChatInput,
	state *models.WorkflowState,
) models.Session {
	now := u.clock.Now()
	session.Normalize()
	session.LastActive = now

	if strings.TrimSpace(input.Message) != "" {
		session.MessageCount++
	}

	if state.FileMeta != nil {
		session.UploadCount++
		record := models.UploadRecord{
			Filename:    state.FileMeta.Filename,
			ContentType: state.FileMeta.ContentType,
			Size:        state.FileMeta.Size,
			CreatedAt:   now,
		}
		if u.blobRepository != nil {
			key, err := u.blobRepository.PutUpload(ctx, session.SessionId, record.Filename, record.ContentType, state.FileBytes)
			if err != nil {
				// the answer is already computed, losing the archive copy is not worth failing the request
				utils.LogAndReportSentryError(ctx, err)
			}
			record.ArchiveKey = key
		}
		session.UploadHistory = append(session.UploadHistory, record)
	}

	if state.ClinicalAnalysis != "" {
		risks := state.RiskAssessment
		if risks == nil {
			risks = []string{}
		}
		session.Analysis = append(session.Analysis, models.AnalysisEntry{
			Filename:         state.Filename(),
			UploadedAt:       now,
			ClinicalAnalysis: state.ClinicalAnalysis,
			RiskAssessment:   risks,
		})
		session.HasActiveAnalysis = true
	}

	session.ConversationHistory = append(session.ConversationHistory, models.ConversationTurn{
		Timestamp:        now,
		InputTextSnippet: pure_utils.Truncate(input.Message, models.InputSnippetMaxLength),
		ResponseSnippet:  pure_utils.Truncate(state.FinalResponse, models.ResponseSnippetMaxLength),
	})

	utils.LoggerFromContext(ctx).DebugContext(ctx, "session updated",
		"message_count", session.MessageCount,
		"upload_count", session.UploadCount,
		"analysis_count", len(session.Analysis))
	return session
}
