package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/elimu/core/completion"
	testutil "github.com/trezcool/elimu/tests"
)

func Test_completionApi(t *testing.T) {
	resetApp()

	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	tech := testutil.CreateCategory(t, catalogRepo, "Tech")
	crs := testutil.CreateCourse(t, catalogRepo, "Go", "Rob", tech.ID)

	t.Run("Auth required", func(t *testing.T) {
		for _, path := range []string{
			"/v1/courses/" + crs.ID + "/completion",
			"/v1/certificates/0aaf2a3e-0000-4a4a-9f3e-1e6a2ad8f001",
		} {
			req, rec := newRequest(http.MethodGet, path)
			app.ServeHTTP(rec, req)
			tt := httpTest{path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
			checkCodeAndData(t, tt, rec)
		}
	})

	t.Run("Status before completion", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses/"+crs.ID+"/completion", studentToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, completion.Status{})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Complete unknown course", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses/0aaf2a3e-0000-4a4a-9f3e-1e6a2ad8f001/complete", studentToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "course not found"})}
		checkCodeAndData(t, tt, rec)
	})

	var rec1 completion.Record
	t.Run("Complete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses/"+crs.ID+"/complete", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &rec1); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if rec1.ID == "" || rec1.UserID != student.UserID || rec1.CourseID != crs.ID {
			t.Errorf("complete failed: %+v", rec1)
		}
	})

	t.Run("Complete is idempotent", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses/"+crs.ID+"/complete", studentToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, rec1)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Status after completion", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses/"+crs.ID+"/completion", studentToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, completion.Status{IsCompleted: true, CompletionID: rec1.ID})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Status is per user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses/"+crs.ID+"/completion", adminToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, completion.Status{})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Certificate", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/certificates/"+rec1.ID, studentToken)
		app.ServeHTTP(rec, req)
		want := completion.Certificate{
			Username:       student.Username,
			CourseTitle:    crs.Title,
			Instructor:     crs.Instructor,
			CompletionDate: rec1.CompletedAt,
		}
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, want)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Certificate: owner only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/certificates/"+rec1.ID, adminToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Certificate: unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/certificates/0aaf2a3e-0000-4a4a-9f3e-1e6a2ad8f001", studentToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "completion record not found"})}
		checkCodeAndData(t, tt, rec)
	})
}
