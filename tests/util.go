package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/elimu/core/catalog"
)

func CreateCategory(t *testing.T, repo catalog.Repository, name string, createdAt ...time.Time) catalog.Category {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	cat, err := repo.CreateCategory(context.Background(), catalog.Category{
		Name:      name,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCategory() failed: %v", err)
	}
	return cat
}

func CreateCourse(t *testing.T, repo catalog.Repository, title, instructor, categoryID string, createdAt ...time.Time) catalog.Course {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	crs, err := repo.CreateCourse(context.Background(), catalog.Course{
		Title:       title,
		Description: title + " description",
		Instructor:  instructor,
		CategoryID:  categoryID,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateLesson(t *testing.T, repo catalog.Repository, courseID, title string, orderIndex int, createdAt ...time.Time) catalog.Lesson {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	les, err := repo.CreateLesson(context.Background(), catalog.Lesson{
		CourseID:   courseID,
		Title:      title,
		VideoURL:   "https://videos.test.cd/" + title,
		OrderIndex: orderIndex,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateLesson() failed: %v", err)
	}
	return les
}
