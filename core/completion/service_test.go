package completion_test

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/catalog"
	"github.com/trezcool/elimu/core/completion"
	emailsvc "github.com/trezcool/elimu/services/email"
	logsvc "github.com/trezcool/elimu/services/logger"
	dummydb "github.com/trezcool/elimu/storage/database/dummy"
	testutil "github.com/trezcool/elimu/tests"
)

var (
	student   = core.Principal{UserID: "std-1", Username: "awe", Email: "awe@test.cd"}
	other     = core.Principal{UserID: "std-2", Username: "lol", Email: "lol@test.cd"}
	anonymous = core.Principal{}
)

func setup(t *testing.T) (catalog.Repository, *completion.Service) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	catalogRepo := dummydb.NewCatalogRepository(db)
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	svc := completion.NewService(dummydb.NewCompletionRepository(db), catalogRepo, emailsvc.NewConsoleServiceMock(), logger)
	return catalogRepo, svc
}

func createCourse(t *testing.T, repo catalog.Repository) catalog.Course {
	t.Helper()
	cat := testutil.CreateCategory(t, repo, "Tech")
	return testutil.CreateCourse(t, repo, "Go", "Rob", cat.ID)
}

func TestService_MarkComplete(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)
	crs := createCourse(t, repo)

	t.Run("anonymous", func(t *testing.T) {
		if _, err := svc.MarkComplete(ctx, anonymous, crs.ID); !core.IsNotAuthenticated(err) {
			t.Errorf("MarkComplete() error = %v, want not authenticated", err)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.MarkComplete(ctx, student, "c2f5c23a-3bbb-4a4a-9f3e-1e6a2ad8f001")
		if !core.IsNotFound(err) {
			t.Errorf("MarkComplete() error = %v, want not found", err)
		}
	})

	sentBefore := len(emailsvc.SentMessages)

	rec, err := svc.MarkComplete(ctx, student, crs.ID)
	if err != nil {
		t.Fatalf("MarkComplete() failed: %v", err)
	}
	if rec.ID == "" || rec.UserID != student.UserID || rec.CourseID != crs.ID || rec.CompletedAt.IsZero() {
		t.Errorf("MarkComplete() = %+v", rec)
	}

	t.Run("idempotent", func(t *testing.T) {
		again, err := svc.MarkComplete(ctx, student, crs.ID)
		if err != nil {
			t.Fatalf("MarkComplete() failed: %v", err)
		}
		if again.ID != rec.ID {
			t.Errorf("MarkComplete() ID = %s, want %s", again.ID, rec.ID)
		}
		if !again.CompletedAt.Equal(rec.CompletedAt) {
			t.Errorf("MarkComplete() changed CompletedAt")
		}
	})

	t.Run("certificate email sent once", func(t *testing.T) {
		if sent := len(emailsvc.SentMessages) - sentBefore; sent != 1 {
			t.Errorf("sent %d emails, want 1", sent)
		}
	})
}

func TestService_MarkComplete_concurrent(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)
	crs := createCourse(t, repo)

	const n = 10
	recs := make([]completion.Record, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			rec, err := svc.MarkComplete(ctx, student, crs.ID)
			if err != nil {
				t.Errorf("MarkComplete() failed: %v", err)
				return
			}
			recs[i] = rec
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if recs[i].ID != recs[0].ID {
			t.Errorf("MarkComplete() returned different IDs: %s != %s", recs[i].ID, recs[0].ID)
		}
	}
}

func TestService_GetStatus(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)
	crs := createCourse(t, repo)

	t.Run("anonymous", func(t *testing.T) {
		if _, err := svc.GetStatus(ctx, anonymous, crs.ID); !core.IsNotAuthenticated(err) {
			t.Errorf("GetStatus() error = %v, want not authenticated", err)
		}
	})

	status, err := svc.GetStatus(ctx, student, crs.ID)
	if err != nil {
		t.Fatalf("GetStatus() failed: %v", err)
	}
	if status.IsCompleted || status.CompletionID != "" {
		t.Errorf("GetStatus() = %+v, want not completed", status)
	}

	rec, err := svc.MarkComplete(ctx, student, crs.ID)
	if err != nil {
		t.Fatalf("MarkComplete() failed: %v", err)
	}

	status, err = svc.GetStatus(ctx, student, crs.ID)
	if err != nil {
		t.Fatalf("GetStatus() failed: %v", err)
	}
	if !status.IsCompleted || status.CompletionID != rec.ID {
		t.Errorf("GetStatus() = %+v, want completed with %s", status, rec.ID)
	}

	// completion is per user
	status, err = svc.GetStatus(ctx, other, crs.ID)
	if err != nil {
		t.Fatalf("GetStatus() failed: %v", err)
	}
	if status.IsCompleted {
		t.Errorf("GetStatus() = %+v, want not completed", status)
	}
}

func TestService_ResolveCertificate(t *testing.T) {
	ctx := context.Background()
	repo, svc := setup(t)
	crs := createCourse(t, repo)

	rec, err := svc.MarkComplete(ctx, student, crs.ID)
	if err != nil {
		t.Fatalf("MarkComplete() failed: %v", err)
	}

	t.Run("unknown record", func(t *testing.T) {
		_, err := svc.ResolveCertificate(ctx, student, "d2f5c23a-3bbb-4a4a-9f3e-1e6a2ad8f001")
		if !core.IsNotFound(err) {
			t.Errorf("ResolveCertificate() error = %v, want not found", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		if _, err := svc.ResolveCertificate(ctx, other, rec.ID); !core.IsPermissionDenied(err) {
			t.Errorf("ResolveCertificate() error = %v, want permission denied", err)
		}
	})

	cert, err := svc.ResolveCertificate(ctx, student, rec.ID)
	if err != nil {
		t.Fatalf("ResolveCertificate() failed: %v", err)
	}
	if cert.Username != student.Username || cert.CourseTitle != crs.Title || cert.Instructor != crs.Instructor {
		t.Errorf("ResolveCertificate() = %+v", cert)
	}
	if !cert.CompletionDate.Equal(rec.CompletedAt) {
		t.Errorf("ResolveCertificate() CompletionDate = %v, want %v", cert.CompletionDate, rec.CompletedAt)
	}
}
