package catalog

import (
	"time"

	"github.com/trezcool/elimu/core"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor"`
	ImageURL    string    `json:"image_url,omitempty"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Lesson belongs to exactly one Course; OrderIndex is a display rank, not a
// unique key. Lessons with equal OrderIndex keep their creation order.
type Lesson struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	VideoURL    string    `json:"video_url"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewCategory contains information needed to create a new Category.
type NewCategory struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewCategory) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

// CourseInput defines what information may be provided to create or fully
// replace a Course. Omitted optional fields reset to empty on update.
type CourseInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Instructor  string `json:"instructor" validate:"required"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	CategoryID  string `json:"category_id" validate:"required"`
}

func (ci *CourseInput) Validate() error {
	ci.Title = core.CleanString(ci.Title)
	ci.Description = core.CleanString(ci.Description)
	ci.Instructor = core.CleanString(ci.Instructor)
	ci.ImageURL = core.CleanString(ci.ImageURL)
	ci.CategoryID = core.CleanString(ci.CategoryID)
	return core.Validate.Struct(ci)
}

// LessonInput defines what information may be provided to create or fully
// replace a Lesson.
type LessonInput struct {
	Title       string `json:"title" validate:"required"`
	VideoURL    string `json:"video_url" validate:"required,url"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

func (li *LessonInput) Validate() error {
	li.Title = core.CleanString(li.Title)
	li.VideoURL = core.CleanString(li.VideoURL)
	li.Description = core.CleanString(li.Description)
	return core.Validate.Struct(li)
}

type QueryFilter struct {
	CategoryID string `query:"category_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.CategoryID == ""
}

func (qf *QueryFilter) Clean() {
	qf.CategoryID = core.CleanString(qf.CategoryID)
}
