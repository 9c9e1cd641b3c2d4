package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/completion"
)

type (
	completionRow struct {
		ID          string    `db:"id"`
		UserID      string    `db:"user_id"`
		CourseID    string    `db:"course_id"`
		CompletedAt time.Time `db:"completed_at"`
	}

	completionRepository struct {
		db *sqlx.DB
	}
)

var _ completion.Repository = (*completionRepository)(nil)

func NewCompletionRepository(db *sql.DB) completion.Repository {
	return &completionRepository{db: sqlx.NewDb(db, "postgres")}
}

func (row completionRow) record() completion.Record {
	return completion.Record{
		ID:          row.ID,
		UserID:      row.UserID,
		CourseID:    row.CourseID,
		CompletedAt: row.CompletedAt.UTC(),
	}
}

// CreateRecord inserts rec unless a record already exists for the
// (user_id, course_id) pair. The unique constraint arbitrates concurrent
// inserts; losers fall through to a read of the winning row.
func (repo *completionRepository) CreateRecord(ctx context.Context, rec completion.Record) (completion.Record, bool, error) {
	rec.ID = uuid.New().String()
	res, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO completion_record (id, user_id, course_id, completed_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, course_id) DO NOTHING`,
		rec.ID, rec.UserID, rec.CourseID, rec.CompletedAt,
	)
	if err != nil {
		return completion.Record{}, false, errors.Wrap(err, "inserting completion record")
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return rec, true, nil
	}

	existing, err := repo.GetRecord(ctx, completion.GetFilter{UserID: rec.UserID, CourseID: rec.CourseID})
	if err != nil {
		return completion.Record{}, false, err
	}
	return existing, false, nil
}

func (repo *completionRepository) GetRecord(ctx context.Context, filter completion.GetFilter) (completion.Record, error) {
	var row completionRow
	if filter.ID != "" {
		id, err := uuid.Parse(filter.ID)
		if err != nil {
			return completion.Record{}, completion.ErrRecordNotFound
		}
		err = repo.db.GetContext(ctx, &row, "SELECT * FROM completion_record WHERE id = $1", id.String())
		if err != nil {
			return completion.Record{}, trapNoRowsErr(err, completion.ErrRecordNotFound)
		}
		return row.record(), nil
	}

	if _, err := uuid.Parse(filter.CourseID); err != nil {
		return completion.Record{}, completion.ErrRecordNotFound
	}
	err := repo.db.GetContext(
		ctx, &row,
		"SELECT * FROM completion_record WHERE user_id = $1 AND course_id = $2",
		filter.UserID, filter.CourseID,
	)
	if err != nil {
		return completion.Record{}, trapNoRowsErr(err, completion.ErrRecordNotFound)
	}
	return row.record(), nil
}
