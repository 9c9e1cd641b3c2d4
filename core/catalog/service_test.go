package catalog_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/catalog"
	logsvc "github.com/trezcool/elimu/services/logger"
	dummydb "github.com/trezcool/elimu/storage/database/dummy"
	testutil "github.com/trezcool/elimu/tests"
)

var (
	admin     = core.Principal{UserID: "admin-1", Username: "admin", Email: "admin@test.cd", IsAdmin: true}
	student   = core.Principal{UserID: "std-1", Username: "awe", Email: "awe@test.cd"}
	anonymous = core.Principal{}
)

func setup(t *testing.T) (catalog.Repository, *catalog.Service) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewCatalogRepository(db)
	return repo, catalog.NewService(repo, logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)))
}

func TestService_CreateCategory(t *testing.T) {
	ctx := context.Background()
	_, svc := setup(t)

	tests := []struct {
		name      string
		principal core.Principal
		catName   string
		checkErr  func(error) bool
	}{
		{name: "anonymous", principal: anonymous, catName: "Tech", checkErr: core.IsNotAuthenticated},
		{name: "non-admin", principal: student, catName: "Tech", checkErr: core.IsPermissionDenied},
		{name: "blank name", principal: admin, catName: "  "},
		{name: "ok", principal: admin, catName: "Tech"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := svc.CreateCategory(ctx, tt.principal, catalog.NewCategory{Name: tt.catName})
			if tt.checkErr != nil {
				if err == nil || !tt.checkErr(err) {
					t.Errorf("CreateCategory() error = %v, wrong kind", err)
				}
				return
			}
			if tt.name == "blank name" {
				if err == nil {
					t.Error("CreateCategory() expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateCategory() failed: %v", err)
			}
			if cat.ID == "" || cat.Name != "Tech" {
				t.Errorf("CreateCategory() = %+v", cat)
			}
		})
	}
}

func TestService_DeleteCategory(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)

	cat := testutil.CreateCategory(t, repo, "Business")
	crs := testutil.CreateCourse(t, repo, "Accounting 101", "Jane", cat.ID)

	// referenced category cannot go
	if err := svc.DeleteCategory(ctx, admin, cat.ID); !core.IsConflict(err) {
		t.Errorf("DeleteCategory() error = %v, want conflict", err)
	}

	if err := svc.RemoveCourse(ctx, admin, crs.ID); err != nil {
		t.Fatalf("RemoveCourse() failed: %v", err)
	}
	if err := svc.DeleteCategory(ctx, admin, cat.ID); err != nil {
		t.Errorf("DeleteCategory() failed: %v", err)
	}
	if err := svc.DeleteCategory(ctx, admin, cat.ID); !core.IsNotFound(err) {
		t.Errorf("DeleteCategory() error = %v, want not found", err)
	}
}

func TestService_SubmitCourse(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)

	cat := testutil.CreateCategory(t, repo, "Tech")

	input := catalog.CourseInput{
		Title:       "Go for Gophers",
		Description: "A deep dive",
		Instructor:  "Rob",
		ImageURL:    "https://img.test.cd/go.png",
		CategoryID:  cat.ID,
	}

	t.Run("unknown category", func(t *testing.T) {
		in := input
		in.CategoryID = "f2f5c23a-3bbb-4a4a-9f3e-1e6a2ad8f001"
		_, err := svc.SubmitCourse(ctx, admin, in)
		vErr, ok := err.(*core.ValidationError)
		if !ok {
			t.Fatalf("SubmitCourse() error = %T, want *core.ValidationError", err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "category_id" {
			t.Errorf("SubmitCourse() fields = %+v", vErr.Fields)
		}
	})

	t.Run("non-admin", func(t *testing.T) {
		if _, err := svc.SubmitCourse(ctx, student, input); !core.IsPermissionDenied(err) {
			t.Errorf("SubmitCourse() error = %v, want permission denied", err)
		}
	})

	var created catalog.Course
	t.Run("create", func(t *testing.T) {
		var err error
		created, err = svc.SubmitCourse(ctx, admin, input)
		if err != nil {
			t.Fatalf("SubmitCourse() failed: %v", err)
		}
		if created.ID == "" || created.Title != input.Title || created.ImageURL != input.ImageURL {
			t.Errorf("SubmitCourse() = %+v", created)
		}
	})

	t.Run("update replaces all fields", func(t *testing.T) {
		in := input
		in.Title = "Go for Experts"
		in.ImageURL = "" // omitted optional field resets
		updated, err := svc.SubmitCourse(ctx, admin, in, created.ID)
		if err != nil {
			t.Fatalf("SubmitCourse() failed: %v", err)
		}
		if updated.ID != created.ID {
			t.Errorf("SubmitCourse() changed ID: %s != %s", updated.ID, created.ID)
		}
		if updated.Title != "Go for Experts" || updated.ImageURL != "" {
			t.Errorf("SubmitCourse() = %+v", updated)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("SubmitCourse() changed CreatedAt")
		}
	})

	t.Run("update unknown course", func(t *testing.T) {
		_, err := svc.SubmitCourse(ctx, admin, input, "5b3f9f3e-0000-4a4a-9f3e-1e6a2ad8f002")
		if !core.IsNotFound(err) {
			t.Errorf("SubmitCourse() error = %v, want not found", err)
		}
	})
}

func TestService_QueryCourses(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)

	tech := testutil.CreateCategory(t, repo, "Tech")
	biz := testutil.CreateCategory(t, repo, "Business")
	crs1 := testutil.CreateCourse(t, repo, "Go", "Rob", tech.ID)
	crs2 := testutil.CreateCourse(t, repo, "Accounting", "Jane", biz.ID)
	crs3 := testutil.CreateCourse(t, repo, "Rust", "Steve", tech.ID)

	t.Run("anonymous", func(t *testing.T) {
		if _, err := svc.QueryCourses(ctx, anonymous, nil); !core.IsNotAuthenticated(err) {
			t.Errorf("QueryCourses() error = %v, want not authenticated", err)
		}
	})

	t.Run("all in insertion order", func(t *testing.T) {
		courses, err := svc.QueryCourses(ctx, student, nil)
		if err != nil {
			t.Fatalf("QueryCourses() failed: %v", err)
		}
		wantIDs := []string{crs1.ID, crs2.ID, crs3.ID}
		if len(courses) != len(wantIDs) {
			t.Fatalf("QueryCourses() len = %d, want %d", len(courses), len(wantIDs))
		}
		for i, id := range wantIDs {
			if courses[i].ID != id {
				t.Errorf("QueryCourses()[%d].ID = %s, want %s", i, courses[i].ID, id)
			}
		}
	})

	t.Run("filtered by category", func(t *testing.T) {
		courses, err := svc.QueryCourses(ctx, student, &catalog.QueryFilter{CategoryID: tech.ID})
		if err != nil {
			t.Fatalf("QueryCourses() failed: %v", err)
		}
		if len(courses) != 2 || courses[0].ID != crs1.ID || courses[1].ID != crs3.ID {
			t.Errorf("QueryCourses() = %+v", courses)
		}
	})
}

func TestService_SubmitLesson(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)

	cat := testutil.CreateCategory(t, repo, "Tech")
	crs := testutil.CreateCourse(t, repo, "Go", "Rob", cat.ID)
	other := testutil.CreateCourse(t, repo, "Rust", "Steve", cat.ID)

	input := catalog.LessonInput{
		Title:    "Hello World",
		VideoURL: "https://videos.test.cd/hello.mp4",
	}

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.SubmitLesson(ctx, admin, "9a3f9f3e-0000-4a4a-9f3e-1e6a2ad8f003", input)
		if !core.IsNotFound(err) {
			t.Errorf("SubmitLesson() error = %v, want not found", err)
		}
	})

	t.Run("negative order index", func(t *testing.T) {
		in := input
		in.OrderIndex = -1
		if _, err := svc.SubmitLesson(ctx, admin, crs.ID, in); err == nil {
			t.Error("SubmitLesson() expected validation error")
		}
	})

	les, err := svc.SubmitLesson(ctx, admin, crs.ID, input)
	if err != nil {
		t.Fatalf("SubmitLesson() failed: %v", err)
	}
	if les.CourseID != crs.ID {
		t.Errorf("SubmitLesson().CourseID = %s, want %s", les.CourseID, crs.ID)
	}

	t.Run("update under wrong course", func(t *testing.T) {
		_, err := svc.SubmitLesson(ctx, admin, other.ID, input, les.ID)
		if !core.IsNotFound(err) {
			t.Errorf("SubmitLesson() error = %v, want not found", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		in := input
		in.Title = "Hello Gophers"
		in.OrderIndex = 3
		updated, err := svc.SubmitLesson(ctx, admin, crs.ID, in, les.ID)
		if err != nil {
			t.Fatalf("SubmitLesson() failed: %v", err)
		}
		if updated.ID != les.ID || updated.Title != "Hello Gophers" || updated.OrderIndex != 3 {
			t.Errorf("SubmitLesson() = %+v", updated)
		}
	})
}

func TestService_QueryCourseLessons_ordering(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)

	cat := testutil.CreateCategory(t, repo, "Tech")
	crs := testutil.CreateCourse(t, repo, "Go", "Rob", cat.ID)

	// equal indexes keep creation order
	l1 := testutil.CreateLesson(t, repo, crs.ID, "outro", 2)
	l2 := testutil.CreateLesson(t, repo, crs.ID, "intro-a", 0)
	l3 := testutil.CreateLesson(t, repo, crs.ID, "intro-b", 0)
	l4 := testutil.CreateLesson(t, repo, crs.ID, "middle", 1)

	lessons, err := svc.QueryCourseLessons(ctx, student, crs.ID)
	if err != nil {
		t.Fatalf("QueryCourseLessons() failed: %v", err)
	}
	wantIDs := []string{l2.ID, l3.ID, l4.ID, l1.ID}
	if len(lessons) != len(wantIDs) {
		t.Fatalf("QueryCourseLessons() len = %d, want %d", len(lessons), len(wantIDs))
	}
	for i, id := range wantIDs {
		if lessons[i].ID != id {
			t.Errorf("QueryCourseLessons()[%d].ID = %s, want %s", i, lessons[i].ID, id)
		}
	}
}

func TestService_RemoveCourse_cascades(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)

	cat := testutil.CreateCategory(t, repo, "Tech")
	crs := testutil.CreateCourse(t, repo, "Go", "Rob", cat.ID)
	les := testutil.CreateLesson(t, repo, crs.ID, "intro", 0)

	if err := svc.RemoveCourse(ctx, admin, crs.ID); err != nil {
		t.Fatalf("RemoveCourse() failed: %v", err)
	}
	if _, err := repo.GetLesson(ctx, les.ID); !core.IsNotFound(err) {
		t.Errorf("GetLesson() error = %v, want not found after cascade", err)
	}

	// already deleted
	if err := svc.RemoveCourse(ctx, admin, crs.ID); !core.IsNotFound(err) {
		t.Errorf("RemoveCourse() error = %v, want not found", err)
	}
}
