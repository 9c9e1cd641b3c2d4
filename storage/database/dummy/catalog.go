package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/elimu/core/catalog"
)

type (
	categoryRow struct {
		catalog.Category
		seq int64
	}

	courseRow struct {
		catalog.Course
		seq int64
	}

	lessonRow struct {
		catalog.Lesson
		seq int64
	}

	catalogRepository struct {
		db *DB
	}
)

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateCategory(_ context.Context, cat catalog.Category) (catalog.Category, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	cat.ID = uuid.New().String()
	repo.db.categories[cat.ID] = categoryRow{Category: cat, seq: repo.db.nextSeq()}
	return cat, nil
}

func (repo *catalogRepository) QueryCategories(_ context.Context) ([]catalog.Category, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	rows := make([]categoryRow, 0, len(repo.db.categories))
	for _, row := range repo.db.categories {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	cats := make([]catalog.Category, len(rows))
	for i, row := range rows {
		cats[i] = row.Category
	}
	return cats, nil
}

func (repo *catalogRepository) GetCategory(_ context.Context, id string) (catalog.Category, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	row, ok := repo.db.categories[id]
	if !ok {
		return catalog.Category{}, catalog.ErrCategoryNotFound
	}
	return row.Category, nil
}

func (repo *catalogRepository) DeleteCategory(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.categories[id]; !ok {
		return catalog.ErrCategoryNotFound
	}
	for _, row := range repo.db.courses {
		if row.CategoryID == id {
			return catalog.ErrCategoryInUse
		}
	}
	delete(repo.db.categories, id)
	return nil
}

func (repo *catalogRepository) CreateCourse(_ context.Context, crs catalog.Course) (catalog.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = courseRow{Course: crs, seq: repo.db.nextSeq()}
	return crs, nil
}

func (repo *catalogRepository) QueryCourses(_ context.Context, filter *catalog.QueryFilter) ([]catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	rows := make([]courseRow, 0, len(repo.db.courses))
	for _, row := range repo.db.courses {
		if filter != nil && !filter.IsEmpty() && row.CategoryID != filter.CategoryID {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	courses := make([]catalog.Course, len(rows))
	for i, row := range rows {
		courses[i] = row.Course
	}
	return courses, nil
}

func (repo *catalogRepository) GetCourse(_ context.Context, id string) (catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	row, ok := repo.db.courses[id]
	if !ok {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}
	return row.Course, nil
}

func (repo *catalogRepository) UpdateCourse(_ context.Context, crs catalog.Course) (catalog.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	row, ok := repo.db.courses[crs.ID]
	if !ok {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}
	row.Course = crs
	repo.db.courses[crs.ID] = row
	return crs, nil
}

func (repo *catalogRepository) DeleteCourse(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return catalog.ErrCourseNotFound
	}
	// course and its lessons go together under the same lock
	delete(repo.db.courses, id)
	for lid, row := range repo.db.lessons {
		if row.CourseID == id {
			delete(repo.db.lessons, lid)
		}
	}
	return nil
}

func (repo *catalogRepository) CreateLesson(_ context.Context, les catalog.Lesson) (catalog.Lesson, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	les.ID = uuid.New().String()
	repo.db.lessons[les.ID] = lessonRow{Lesson: les, seq: repo.db.nextSeq()}
	return les, nil
}

func (repo *catalogRepository) QueryCourseLessons(_ context.Context, courseID string) ([]catalog.Lesson, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	rows := make([]lessonRow, 0)
	for _, row := range repo.db.lessons {
		if row.CourseID == courseID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].OrderIndex != rows[j].OrderIndex {
			return rows[i].OrderIndex < rows[j].OrderIndex
		}
		return rows[i].seq < rows[j].seq
	})

	lessons := make([]catalog.Lesson, len(rows))
	for i, row := range rows {
		lessons[i] = row.Lesson
	}
	return lessons, nil
}

func (repo *catalogRepository) GetLesson(_ context.Context, id string) (catalog.Lesson, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	row, ok := repo.db.lessons[id]
	if !ok {
		return catalog.Lesson{}, catalog.ErrLessonNotFound
	}
	return row.Lesson, nil
}

func (repo *catalogRepository) UpdateLesson(_ context.Context, les catalog.Lesson) (catalog.Lesson, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	row, ok := repo.db.lessons[les.ID]
	if !ok {
		return catalog.Lesson{}, catalog.ErrLessonNotFound
	}
	row.Lesson = les
	repo.db.lessons[les.ID] = row
	return les, nil
}

func (repo *catalogRepository) DeleteLesson(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.lessons[id]; !ok {
		return catalog.ErrLessonNotFound
	}
	delete(repo.db.lessons, id)
	return nil
}
