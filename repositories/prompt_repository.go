package repositories

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/utils"
	"gopkg.in/yaml.v3"
)

type PromptRepository interface {
	GetPrompt(ref models.PromptRef) (models.PromptConfig, error)
}

// FilePromptRepository serves the prompt catalog read from a JSON or YAML file.
type FilePromptRepository struct {
	path     string
	versions models.PromptVersions

	mu      sync.RWMutex
	catalog models.PromptCatalog
}

func NewFilePromptRepository(path string, versions models.PromptVersions) (*FilePromptRepository, error) {
	catalog, err := LoadPromptCatalog(path)
	if err != nil {
		return nil, err
	}
	return &FilePromptRepository{
		path:     path,
		versions: versions,
		catalog:  catalog,
	}, nil
}

// LoadPromptCatalog reads a catalog file. yaml.v3 decodes JSON as well, so both formats are accepted.
func LoadPromptCatalog(path string) (models.PromptCatalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read prompt catalog %s", path)
	}

	var catalog models.PromptCatalog
	if err := yaml.Unmarshal(content, &catalog); err != nil {
		return nil, errors.Wrapf(err, "could not decode prompt catalog %s", path)
	}
	if len(catalog) == 0 {
		return nil, errors.Newf("prompt catalog %s is empty", path)
	}
	return catalog, nil
}

func (repo *FilePromptRepository) GetPrompt(ref models.PromptRef) (models.PromptConfig, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return repo.catalog.Get(ref, repo.versions.For(ref.Module))
}

// Reload re-reads the catalog file. On failure the catalog in use is kept.
func (repo *FilePromptRepository) Reload() error {
	catalog, err := LoadPromptCatalog(repo.path)
	if err != nil {
		return err
	}

	repo.mu.Lock()
	repo.catalog = catalog
	repo.mu.Unlock()
	return nil
}

// Watch reloads the catalog whenever its file changes, until ctx is done.
// The parent directory is watched because editors often replace files instead of writing them.
func (repo *FilePromptRepository) Watch(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not create prompt catalog watcher")
	}
	defer watcher.Close()

	target, err := filepath.Abs(repo.path)
	if err != nil {
		return errors.Wrapf(err, "could not resolve prompt catalog path %s", repo.path)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "could not watch prompt catalog %s", repo.path)
	}

	logger.InfoContext(ctx, "watching prompt catalog for changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := repo.Reload(); err != nil {
				logger.ErrorContext(ctx, "could not reload prompt catalog, keeping the previous one", "error", err.Error())
				continue
			}
			logger.InfoContext(ctx, "prompt catalog reloaded", "path", target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "prompt catalog watcher error", "error", err.Error())
		}
	}
}
