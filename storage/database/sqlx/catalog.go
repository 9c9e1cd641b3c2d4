package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/catalog"
)

var defaultCourseOrdering = []core.DBOrdering{
	{Field: "created_at", Ascending: true},
	{Field: "id", Ascending: true},
}

type (
	categoryRow struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}

	courseRow struct {
		ID          string      `db:"id"`
		Title       string      `db:"title"`
		Description string      `db:"description"`
		Instructor  string      `db:"instructor"`
		ImageURL    null.String `db:"image_url"`
		CategoryID  string      `db:"category_id"`
		CreatedAt   time.Time   `db:"created_at"`
		UpdatedAt   time.Time   `db:"updated_at"`
	}

	lessonRow struct {
		ID          string      `db:"id"`
		CourseID    string      `db:"course_id"`
		Title       string      `db:"title"`
		VideoURL    string      `db:"video_url"`
		Description null.String `db:"description"`
		OrderIndex  int         `db:"order_index"`
		Seq         int64       `db:"seq"`
		CreatedAt   time.Time   `db:"created_at"`
		UpdatedAt   time.Time   `db:"updated_at"`
	}

	catalogRepository struct {
		db *sqlx.DB
	}
)

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *sql.DB) catalog.Repository {
	return &catalogRepository{db: sqlx.NewDb(db, "postgres")}
}

func (row categoryRow) category() catalog.Category {
	return catalog.Category{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func (row courseRow) course() catalog.Course {
	return catalog.Course{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Instructor:  row.Instructor,
		ImageURL:    row.ImageURL.String,
		CategoryID:  row.CategoryID,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func (row lessonRow) lesson() catalog.Lesson {
	return catalog.Lesson{
		ID:          row.ID,
		CourseID:    row.CourseID,
		Title:       row.Title,
		VideoURL:    row.VideoURL,
		Description: row.Description.String,
		OrderIndex:  row.OrderIndex,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func trapNoRowsErr(err, notFoundErr error) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFoundErr
	}
	return err
}

// parseID guards UUID columns against malformed path params; postgres would
// otherwise reject the query with a cast error instead of finding nothing.
func parseID(id string, notFoundErr error) (string, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return "", notFoundErr
	}
	return uid.String(), nil
}

func orderingClause(ordering []core.DBOrdering) string {
	parts := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		parts = append(parts, ord.String())
	}
	return strings.Join(parts, ", ")
}

// ---------------------------------------------------------------------------
// categories

func (repo *catalogRepository) CreateCategory(ctx context.Context, cat catalog.Category) (catalog.Category, error) {
	cat.ID = uuid.New().String()
	_, err := repo.db.ExecContext(
		ctx,
		"INSERT INTO category (id, name, created_at) VALUES ($1, $2, $3)",
		cat.ID, cat.Name, cat.CreatedAt,
	)
	if err != nil {
		return catalog.Category{}, errors.Wrap(err, "inserting category")
	}
	return cat, nil
}

func (repo *catalogRepository) QueryCategories(ctx context.Context) ([]catalog.Category, error) {
	var rows []categoryRow
	err := repo.db.SelectContext(ctx, &rows, "SELECT * FROM category ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	cats := make([]catalog.Category, len(rows))
	for i, row := range rows {
		cats[i] = row.category()
	}
	return cats, nil
}

func (repo *catalogRepository) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	id, err := parseID(id, catalog.ErrCategoryNotFound)
	if err != nil {
		return catalog.Category{}, err
	}
	var row categoryRow
	if err = repo.db.GetContext(ctx, &row, "SELECT * FROM category WHERE id = $1", id); err != nil {
		return catalog.Category{}, trapNoRowsErr(err, catalog.ErrCategoryNotFound)
	}
	return row.category(), nil
}

func (repo *catalogRepository) DeleteCategory(ctx context.Context, id string) error {
	id, err := parseID(id, catalog.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	var refs int
	err = repo.db.GetContext(ctx, &refs, "SELECT COUNT(*) FROM course WHERE category_id = $1", id)
	if err != nil {
		return errors.Wrap(err, "checking category references")
	}
	if refs > 0 {
		return catalog.ErrCategoryInUse
	}

	res, err := repo.db.ExecContext(ctx, "DELETE FROM category WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// courses

func (repo *catalogRepository) CreateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	crs.ID = uuid.New().String()
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO course (id, title, description, instructor, image_url, category_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		crs.ID, crs.Title, crs.Description, crs.Instructor,
		null.NewString(crs.ImageURL, crs.ImageURL != ""), crs.CategoryID, crs.CreatedAt, crs.UpdatedAt,
	)
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo *catalogRepository) QueryCourses(ctx context.Context, filter *catalog.QueryFilter) ([]catalog.Course, error) {
	query := "SELECT * FROM course"
	var args []interface{}
	if filter != nil && !filter.IsEmpty() {
		categoryID, err := parseID(filter.CategoryID, catalog.ErrCategoryNotFound)
		if err != nil {
			return []catalog.Course{}, nil // unknown category matches nothing
		}
		query += " WHERE category_id = $1"
		args = append(args, categoryID)
	}
	query += fmt.Sprintf(" ORDER BY %s", orderingClause(defaultCourseOrdering))

	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]catalog.Course, len(rows))
	for i, row := range rows {
		courses[i] = row.course()
	}
	return courses, nil
}

func (repo *catalogRepository) GetCourse(ctx context.Context, id string) (catalog.Course, error) {
	id, err := parseID(id, catalog.ErrCourseNotFound)
	if err != nil {
		return catalog.Course{}, err
	}
	var row courseRow
	if err = repo.db.GetContext(ctx, &row, "SELECT * FROM course WHERE id = $1", id); err != nil {
		return catalog.Course{}, trapNoRowsErr(err, catalog.ErrCourseNotFound)
	}
	return row.course(), nil
}

func (repo *catalogRepository) UpdateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	res, err := repo.db.ExecContext(
		ctx,
		`UPDATE course
		 SET title = $2, description = $3, instructor = $4, image_url = $5, category_id = $6, updated_at = $7
		 WHERE id = $1`,
		crs.ID, crs.Title, crs.Description, crs.Instructor,
		null.NewString(crs.ImageURL, crs.ImageURL != ""), crs.CategoryID, crs.UpdatedAt,
	)
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "updating course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}
	return crs, nil
}

func (repo *catalogRepository) DeleteCourse(ctx context.Context, id string) error {
	id, err := parseID(id, catalog.ErrCourseNotFound)
	if err != nil {
		return err
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, "DELETE FROM lesson WHERE course_id = $1", id); err != nil {
		return errors.Wrap(err, "deleting course lessons")
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM course WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrCourseNotFound
	}
	return errors.Wrap(tx.Commit(), "committing course deletion")
}

// ---------------------------------------------------------------------------
// lessons

func (repo *catalogRepository) CreateLesson(ctx context.Context, les catalog.Lesson) (catalog.Lesson, error) {
	les.ID = uuid.New().String()
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO lesson (id, course_id, title, video_url, description, order_index, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		les.ID, les.CourseID, les.Title, les.VideoURL,
		null.NewString(les.Description, les.Description != ""), les.OrderIndex, les.CreatedAt, les.UpdatedAt,
	)
	if err != nil {
		return catalog.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return les, nil
}

func (repo *catalogRepository) QueryCourseLessons(ctx context.Context, courseID string) ([]catalog.Lesson, error) {
	courseID, err := parseID(courseID, catalog.ErrCourseNotFound)
	if err != nil {
		return nil, err
	}
	var rows []lessonRow
	err = repo.db.SelectContext(
		ctx, &rows,
		"SELECT * FROM lesson WHERE course_id = $1 ORDER BY order_index ASC, seq ASC",
		courseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	lessons := make([]catalog.Lesson, len(rows))
	for i, row := range rows {
		lessons[i] = row.lesson()
	}
	return lessons, nil
}

func (repo *catalogRepository) GetLesson(ctx context.Context, id string) (catalog.Lesson, error) {
	id, err := parseID(id, catalog.ErrLessonNotFound)
	if err != nil {
		return catalog.Lesson{}, err
	}
	var row lessonRow
	if err = repo.db.GetContext(ctx, &row, "SELECT * FROM lesson WHERE id = $1", id); err != nil {
		return catalog.Lesson{}, trapNoRowsErr(err, catalog.ErrLessonNotFound)
	}
	return row.lesson(), nil
}

func (repo *catalogRepository) UpdateLesson(ctx context.Context, les catalog.Lesson) (catalog.Lesson, error) {
	res, err := repo.db.ExecContext(
		ctx,
		`UPDATE lesson
		 SET title = $2, video_url = $3, description = $4, order_index = $5, updated_at = $6
		 WHERE id = $1`,
		les.ID, les.Title, les.VideoURL,
		null.NewString(les.Description, les.Description != ""), les.OrderIndex, les.UpdatedAt,
	)
	if err != nil {
		return catalog.Lesson{}, errors.Wrap(err, "updating lesson")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.Lesson{}, catalog.ErrLessonNotFound
	}
	return les, nil
}

func (repo *catalogRepository) DeleteLesson(ctx context.Context, id string) error {
	id, err := parseID(id, catalog.ErrLessonNotFound)
	if err != nil {
		return err
	}
	res, err := repo.db.ExecContext(ctx, "DELETE FROM lesson WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrLessonNotFound
	}
	return nil
}
