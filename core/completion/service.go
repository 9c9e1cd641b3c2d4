package completion

import (
	"context"
	"net/mail"
	"time"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/catalog"
)

var (
	// errors
	ErrRecordNotFound = core.NewNotFoundError("completion record not found")
)

type (
	Repository interface {
		// CreateRecord inserts rec unless a Record already exists for
		// (rec.UserID, rec.CourseID). It returns the winning Record and whether
		// a new one was created. The check-and-insert is atomic with respect to
		// concurrent calls for the same pair.
		CreateRecord(ctx context.Context, rec Record) (Record, bool, error)
		GetRecord(ctx context.Context, filter GetFilter) (Record, error)
	}

	Service struct {
		repo        Repository
		catalogRepo catalog.Repository
		mailSvc     core.EmailService
		logger      core.Logger
	}
)

func NewService(repo Repository, catalogRepo catalog.Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:        repo,
		catalogRepo: catalogRepo,
		mailSvc:     mailSvc,
		logger:      logger,
	}
}

// GetStatus reports whether principal completed the course. Pure read.
func (svc *Service) GetStatus(ctx context.Context, principal core.Principal, courseID string) (Status, error) {
	if principal.IsAnonymous() {
		return Status{}, core.ErrNotAuthenticated
	}
	rec, err := svc.repo.GetRecord(ctx, GetFilter{UserID: principal.UserID, CourseID: courseID})
	if err != nil {
		if core.IsNotFound(err) {
			return Status{}, nil
		}
		return Status{}, err
	}
	return Status{IsCompleted: true, CompletionID: rec.ID}, nil
}

// MarkComplete records that principal completed the course. Idempotent: if a
// Record already exists for this (user, course) pair it is returned unchanged.
// Completing a course that no longer exists is forbidden.
func (svc *Service) MarkComplete(ctx context.Context, principal core.Principal, courseID string) (Record, error) {
	if principal.IsAnonymous() {
		return Record{}, core.ErrNotAuthenticated
	}
	crs, err := svc.catalogRepo.GetCourse(ctx, courseID)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		UserID:      principal.UserID,
		CourseID:    crs.ID,
		CompletedAt: time.Now().UTC(),
	}
	rec, created, err := svc.repo.CreateRecord(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	if created {
		svc.sendCertificateEmail(principal, crs, rec)
	}
	return rec, nil
}

// ResolveCertificate joins a Record with its Course into a Certificate.
// The Record must belong to principal.
func (svc *Service) ResolveCertificate(ctx context.Context, principal core.Principal, completionID string) (Certificate, error) {
	if principal.IsAnonymous() {
		return Certificate{}, core.ErrNotAuthenticated
	}
	rec, err := svc.repo.GetRecord(ctx, GetFilter{ID: completionID})
	if err != nil {
		return Certificate{}, err
	}
	if rec.UserID != principal.UserID {
		return Certificate{}, core.ErrPermissionDenied
	}
	crs, err := svc.catalogRepo.GetCourse(ctx, rec.CourseID)
	if err != nil {
		return Certificate{}, err
	}
	return Certificate{
		Username:       principal.Username,
		CourseTitle:    crs.Title,
		Instructor:     crs.Instructor,
		CompletionDate: rec.CompletedAt,
	}, nil
}

func (svc *Service) sendCertificateEmail(principal core.Principal, crs catalog.Course, rec Record) {
	if principal.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: principal.Username, Address: principal.Email}},
			Subject:      "Congratulations, you completed " + crs.Title + "!",
			TemplateName: "course-completed",
			TemplateData: struct {
				Name         string
				CourseTitle  string
				CompletionID string
			}{
				Name:         principal.Username,
				CourseTitle:  crs.Title,
				CompletionID: rec.ID,
			},
		},
	)
}
