package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

var (
	// errors
	ErrCategoryNotFound = core.NewNotFoundError("category not found")
	ErrCourseNotFound   = core.NewNotFoundError("course not found")
	ErrLessonNotFound   = core.NewNotFoundError("lesson not found")
	ErrCategoryInUse    = core.NewConflictError("category is referenced by existing courses")

	errUnknownCategory = "this category does not exist"
)

type (
	Repository interface {
		CreateCategory(ctx context.Context, cat Category) (Category, error)
		QueryCategories(ctx context.Context) ([]Category, error)
		GetCategory(ctx context.Context, id string) (Category, error)
		// DeleteCategory fails with ErrCategoryInUse while any Course references the Category.
		DeleteCategory(ctx context.Context, id string) error

		CreateCourse(ctx context.Context, crs Course) (Course, error)
		// QueryCourses returns Courses in insertion order, optionally filtered.
		QueryCourses(ctx context.Context, filter *QueryFilter) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		// DeleteCourse deletes the Course and all its Lessons in the same transaction.
		DeleteCourse(ctx context.Context, id string) error

		CreateLesson(ctx context.Context, les Lesson) (Lesson, error)
		// QueryCourseLessons returns Lessons ordered by OrderIndex ascending;
		// ties keep creation order.
		QueryCourseLessons(ctx context.Context, courseID string) ([]Lesson, error)
		GetLesson(ctx context.Context, id string) (Lesson, error)
		UpdateLesson(ctx context.Context, les Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (svc *Service) requireAuthenticated(principal core.Principal) error {
	if principal.IsAnonymous() {
		return core.ErrNotAuthenticated
	}
	return nil
}

func (svc *Service) requireAdmin(principal core.Principal) error {
	if err := svc.requireAuthenticated(principal); err != nil {
		return err
	}
	if !principal.IsAdmin {
		return core.ErrPermissionDenied
	}
	return nil
}

func (svc *Service) CreateCategory(ctx context.Context, principal core.Principal, nc NewCategory) (Category, error) {
	if err := svc.requireAdmin(principal); err != nil {
		return Category{}, err
	}
	if err := nc.Validate(); err != nil {
		return Category{}, err
	}
	cat := Category{
		Name:      nc.Name,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateCategory(ctx, cat)
}

func (svc *Service) QueryCategories(ctx context.Context) ([]Category, error) {
	return svc.repo.QueryCategories(ctx)
}

func (svc *Service) DeleteCategory(ctx context.Context, principal core.Principal, id string) error {
	if err := svc.requireAdmin(principal); err != nil {
		return err
	}
	return svc.repo.DeleteCategory(ctx, id)
}

// SubmitCourse creates a new Course or, when existingID is provided, fully
// replaces an existing one. The referenced Category must exist.
func (svc *Service) SubmitCourse(ctx context.Context, principal core.Principal, in CourseInput, existingID ...string) (Course, error) {
	if err := svc.requireAdmin(principal); err != nil {
		return Course{}, err
	}
	if err := in.Validate(); err != nil {
		return Course{}, err
	}

	// ContentStore has no cross-entity knowledge; the Category check lives here.
	if _, err := svc.repo.GetCategory(ctx, in.CategoryID); err != nil {
		if core.IsNotFound(err) {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "category_id", Error: errUnknownCategory})
		}
		return Course{}, errors.Wrap(err, "checking category")
	}

	now := time.Now().UTC()
	if len(existingID) > 0 && existingID[0] != "" {
		crs, err := svc.repo.GetCourse(ctx, existingID[0])
		if err != nil {
			return Course{}, err
		}
		crs.Title = in.Title
		crs.Description = in.Description
		crs.Instructor = in.Instructor
		crs.ImageURL = in.ImageURL
		crs.CategoryID = in.CategoryID
		crs.UpdatedAt = now
		return svc.repo.UpdateCourse(ctx, crs)
	}

	crs := Course{
		Title:       in.Title,
		Description: in.Description,
		Instructor:  in.Instructor,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

// RemoveCourse deletes the Course and all its Lessons. A second call on the
// same id yields ErrCourseNotFound, which callers treat as already-deleted.
func (svc *Service) RemoveCourse(ctx context.Context, principal core.Principal, id string) error {
	if err := svc.requireAdmin(principal); err != nil {
		return err
	}
	return svc.repo.DeleteCourse(ctx, id)
}

func (svc *Service) QueryCourses(ctx context.Context, principal core.Principal, filter *QueryFilter) ([]Course, error) {
	if err := svc.requireAuthenticated(principal); err != nil {
		return nil, err
	}
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryCourses(ctx, filter)
}

func (svc *Service) GetCourse(ctx context.Context, principal core.Principal, id string) (Course, error) {
	if err := svc.requireAuthenticated(principal); err != nil {
		return Course{}, err
	}
	return svc.repo.GetCourse(ctx, id)
}

// SubmitLesson creates a new Lesson under courseID or, when existingID is
// provided, fully replaces an existing one. Reassigning a Lesson to a
// different Course is not supported.
func (svc *Service) SubmitLesson(ctx context.Context, principal core.Principal, courseID string, in LessonInput, existingID ...string) (Lesson, error) {
	if err := svc.requireAdmin(principal); err != nil {
		return Lesson{}, err
	}
	if err := in.Validate(); err != nil {
		return Lesson{}, err
	}

	now := time.Now().UTC()
	if len(existingID) > 0 && existingID[0] != "" {
		les, err := svc.repo.GetLesson(ctx, existingID[0])
		if err != nil {
			return Lesson{}, err
		}
		if courseID != "" && courseID != les.CourseID {
			return Lesson{}, ErrLessonNotFound
		}
		les.Title = in.Title
		les.VideoURL = in.VideoURL
		les.Description = in.Description
		les.OrderIndex = in.OrderIndex
		les.UpdatedAt = now
		return svc.repo.UpdateLesson(ctx, les)
	}

	if _, err := svc.repo.GetCourse(ctx, courseID); err != nil {
		return Lesson{}, err
	}
	les := Lesson{
		CourseID:    courseID,
		Title:       in.Title,
		VideoURL:    in.VideoURL,
		Description: in.Description,
		OrderIndex:  in.OrderIndex,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateLesson(ctx, les)
}

func (svc *Service) RemoveLesson(ctx context.Context, principal core.Principal, id string) error {
	if err := svc.requireAdmin(principal); err != nil {
		return err
	}
	return svc.repo.DeleteLesson(ctx, id)
}

func (svc *Service) QueryCourseLessons(ctx context.Context, principal core.Principal, courseID string) ([]Lesson, error) {
	if err := svc.requireAuthenticated(principal); err != nil {
		return nil, err
	}
	if _, err := svc.repo.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return svc.repo.QueryCourseLessons(ctx, courseID)
}
