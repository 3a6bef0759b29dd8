package repositories

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/healthinsights/health-insights-backend/repositories/clock"
	"github.com/healthinsights/health-insights-backend/utils"
	"go.opentelemetry.io/otel/attribute"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

type BlobRepository interface {
	PutUpload(ctx context.Context, sessionId, filename, contentType string, content []byte) (string, error)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename keeps the base name of an uploaded file, with anything unusual replaced by "_".
func SanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.Trim(unsafeFilenameChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		return "upload"
	}
	return base
}

// GocloudBlobRepository archives uploaded documents in a gocloud bucket (file://, mem://, ...).
type GocloudBlobRepository struct {
	bucketUrl string
	clock     clock.Clock

	m      sync.Mutex
	bucket *blob.Bucket
}

func NewBlobRepository(bucketUrl string, clk clock.Clock) *GocloudBlobRepository {
	return &GocloudBlobRepository{
		bucketUrl: bucketUrl,
		clock:     clk,
	}
}

func (repository *GocloudBlobRepository) openBucket(ctx context.Context) (*blob.Bucket, error) {
	repository.m.Lock()
	defer repository.m.Unlock()

	if repository.bucket != nil {
		return repository.bucket, nil
	}

	bucket, err := blob.OpenBucket(ctx, repository.bucketUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", repository.bucketUrl)
	}
	repository.bucket = bucket
	return bucket, nil
}

func (repository *GocloudBlobRepository) PutUpload(
	ctx context.Context,
	sessionId, filename, contentType string,
	content []byte,
) (string, error) {
	ctx, span := utils.StartSpan(ctx, "repositories.BlobRepository.PutUpload",
		attribute.String("bucket", repository.bucketUrl),
		attribute.Int("size", len(content)),
	)
	defer span.End()

	bucket, err := repository.openBucket(ctx)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("uploads/%s/%d-%s",
		SanitizeFilename(sessionId),
		repository.clock.Now().UnixNano(),
		SanitizeFilename(filename))

	if err := bucket.WriteAll(ctx, key, content, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return "", errors.Wrapf(err, "failed to write %s to bucket", key)
	}
	return key, nil
}

func (repository *GocloudBlobRepository) Close() error {
	repository.m.Lock()
	defer repository.m.Unlock()

	if repository.bucket == nil {
		return nil
	}
	return repository.bucket.Close()
}
