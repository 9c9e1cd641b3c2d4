package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/elimu/core/completion"
)

type (
	completionRow struct {
		completion.Record
		seq int64
	}

	completionRepository struct {
		db *DB
	}
)

var _ completion.Repository = (*completionRepository)(nil)

func NewCompletionRepository(db *DB) completion.Repository {
	return &completionRepository{db: db}
}

func pairKey(userID, courseID string) string {
	return userID + ":" + courseID
}

func (repo *completionRepository) CreateRecord(_ context.Context, rec completion.Record) (completion.Record, bool, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	key := pairKey(rec.UserID, rec.CourseID)
	if existingID, ok := repo.db.completionsByPair[key]; ok {
		return repo.db.completions[existingID].Record, false, nil
	}

	rec.ID = uuid.New().String()
	repo.db.completions[rec.ID] = completionRow{Record: rec, seq: repo.db.nextSeq()}
	repo.db.completionsByPair[key] = rec.ID
	return rec, true, nil
}

func (repo *completionRepository) GetRecord(_ context.Context, filter completion.GetFilter) (completion.Record, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if filter.ID != "" {
		row, ok := repo.db.completions[filter.ID]
		if !ok {
			return completion.Record{}, completion.ErrRecordNotFound
		}
		return row.Record, nil
	}

	id, ok := repo.db.completionsByPair[pairKey(filter.UserID, filter.CourseID)]
	if !ok {
		return completion.Record{}, completion.ErrRecordNotFound
	}
	return repo.db.completions[id].Record, nil
}
