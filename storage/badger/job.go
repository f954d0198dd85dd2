package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mburaksayici/legal-rag/core"
	"github.com/mburaksayici/legal-rag/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
type JobRepository struct {
	backend *Backend
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) (*JobRepository, error) {
	return &JobRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *JobRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *JobRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutJob inserts or updates a job record.
func (r *JobRepository) PutJob(ctx context.Context, job *core.IngestionJob) error {
	if err := core.ValidateIngestionJob(job); err != nil {
		return err
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(job.ID)
		if err := tx.Set(key, storage.MarshalIngestionJob(job)); err != nil {
			return err
		}

		// CreatedAt never changes after first write, so re-setting the
		// creation-time index on every update is idempotent.
		indexKey := makeJobCreatedAtKey(job.CreatedAt, job.ID)
		if err := tx.Set(indexKey, []byte(job.ID)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// GetJob retrieves a single job by ID.
func (r *JobRepository) GetJob(ctx context.Context, jobID string) (*core.IngestionJob, error) {
	var result *core.IngestionJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeJobKey(jobID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalIngestionJob(val)
			return err
		})
	}, false)
	return result, err
}

// ListJobs retrieves persisted jobs, most recent first.
func (r *JobRepository) ListJobs(ctx context.Context, limit int) ([]*core.IngestionJob, error) {
	var jobs []*core.IngestionJob

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Walk the creation-time index backwards for newest-first order.
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobCreatedAtPrefix + ":")
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration starts past the end of the prefix range.
		seekKey := append([]byte(jobCreatedAtPrefix+":"), 0xFF)
		for iter.Seek(seekKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(jobs) >= limit {
				break
			}

			var jobID string
			err := iter.Item().Value(func(val []byte) error {
				jobID = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			item, err := tx.Get(makeJobKey(jobID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				job, err := storage.UnmarshalIngestionJob(val)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return jobs, err
}
