package completion

import "time"

// Record is durable proof that a user finished a course. At most one Record
// exists per (UserID, CourseID) pair; Records are immutable and permanent.
// The ID is the only identifier safe to expose externally.
type Record struct {
	ID          string    `json:"completion_id"`
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	CompletedAt time.Time `json:"completed_at"` // UTC
}

type Status struct {
	IsCompleted  bool   `json:"is_completed"`
	CompletionID string `json:"completion_id,omitempty"`
}

// Certificate is a self-contained, renderable payload; presentation is up to
// the frontend.
type Certificate struct {
	Username       string    `json:"username"`
	CourseTitle    string    `json:"course_title"`
	Instructor     string    `json:"instructor"`
	CompletionDate time.Time `json:"completion_date"`
}

// GetFilter selects a Record either by ID or by (UserID, CourseID).
type GetFilter struct {
	ID       string
	UserID   string
	CourseID string
}
