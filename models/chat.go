package models

type ChatInput struct {
	SessionId string
	Message   string
	File      *UploadedFile
}

type ChatResult struct {
	SessionId         string
	Message           *string
	HasActiveAnalysis bool
}
