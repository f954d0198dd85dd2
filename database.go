package legalrag

import (
	"io"
	"log/slog"

	"github.com/mburaksayici/legal-rag/ai"
	"github.com/mburaksayici/legal-rag/ai/openai"
	"github.com/mburaksayici/legal-rag/extract"
	"github.com/mburaksayici/legal-rag/ingestion"
	"github.com/mburaksayici/legal-rag/reembed"
	"github.com/mburaksayici/legal-rag/search"
	"github.com/mburaksayici/legal-rag/storage"
	"github.com/mburaksayici/legal-rag/storage/badger"
)

// Database bundles the storage backend, repositories, and AI provider behind
// one handle and acts as the factory for coordinators and searchers.
type Database struct {
	backend   *badger.Backend
	jobRepo   storage.JobRepository
	taskRepo  storage.TaskRepository
	chunkRepo storage.ChunkRepository
	provider  ai.Provider
	extractor extract.TextExtractor
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the AI service configuration used to build the default
// provider. Ignored when WithProvider is given.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider replaces the default OpenAI-compatible provider.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	jobRepo, err := badger.NewJobRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	taskRepo, err := badger.NewTaskRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:   backend,
		jobRepo:   jobRepo,
		taskRepo:  taskRepo,
		chunkRepo: chunkRepo,
		provider:  provider,
		extractor: extract.New(),
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) JobRepository() storage.JobRepository {
	return db.jobRepo
}

func (db *Database) TaskRepository() storage.TaskRepository {
	return db.taskRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) NewCoordinator(opts ...ingestion.Option) (*ingestion.Coordinator, error) {
	return ingestion.NewCoordinator(db.jobRepo, db.taskRepo, db.chunkRepo, db.provider, db.extractor, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.chunkRepo, db.provider, opts...)
}

// NewReembedder builds a bulk re-embedding runner over the stored chunks.
// Pass a nil config to use reembed.DefaultConfig.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.chunkRepo, db.provider.Embedder(), config, progress)
}
