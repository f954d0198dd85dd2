package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mburaksayici/legal-rag/core"
	"github.com/mburaksayici/legal-rag/storage"
)

// TaskRepository implements storage.TaskRepository for BadgerDB.
type TaskRepository struct {
	backend *Backend
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend) (*TaskRepository, error) {
	return &TaskRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *TaskRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TaskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutTask inserts or updates a task record.
func (r *TaskRepository) PutTask(ctx context.Context, task *core.DocumentTask) error {
	if err := core.ValidateDocumentTask(task); err != nil {
		return err
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTaskKey(task.JobID, task.ID)
		if err := tx.Set(key, storage.MarshalDocumentTask(task)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetTask retrieves a single task by job and task ID.
func (r *TaskRepository) GetTask(ctx context.Context, jobID, taskID string) (*core.DocumentTask, error) {
	var result *core.DocumentTask
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTaskKey(jobID, taskID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalDocumentTask(val)
			return err
		})
	}, false)
	return result, err
}

// GetTasksByJob retrieves all tasks of a job, ordered by task ID.
func (r *TaskRepository) GetTasksByJob(ctx context.Context, jobID string) ([]*core.DocumentTask, error) {
	var tasks []*core.DocumentTask

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTaskJobPrefix(jobID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				task, err := storage.UnmarshalDocumentTask(val)
				if err != nil {
					return err
				}
				tasks = append(tasks, task)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return tasks, err
}
