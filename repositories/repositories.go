package repositories

type Repositories struct {
	RedisClient       *RedisClient
	SessionRepository SessionRepository
	PromptRepository  PromptRepository
	LlmRepository     LlmRepository
	// BlobRepository is nil when uploaded documents are not archived.
	BlobRepository BlobRepository
}

func NewRepositories(
	redisClient *RedisClient,
	promptRepository PromptRepository,
	llmRepository LlmRepository,
	blobRepository BlobRepository,
) Repositories {
	return Repositories{
		RedisClient:       redisClient,
		SessionRepository: NewSessionRepository(redisClient),
		PromptRepository:  promptRepository,
		LlmRepository:     llmRepository,
		BlobRepository:    blobRepository,
	}
}
