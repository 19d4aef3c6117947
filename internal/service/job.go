package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

const msgJobNotFound = "Job not found"

// JobInput holds the fields of a new job posting.
type JobInput struct {
	Title       string
	Description string
	Location    string
	Package     string
	Company     string
	Type        model.JobType
	Eligibility model.Eligibility
	Deadline    time.Time
	Form        map[string]any
	RecruiterID *uuid.UUID
}

// JobDetails is a job as shown on its own page.
type JobDetails struct {
	Job          model.Job
	HasApplied   bool
	JDURL        string
	Applications []model.Application
}

// VerifyAction is a coordinator decision on a pending job.
type VerifyAction string

const (
	VerifyApprove VerifyAction = "approve"
	VerifyReject  VerifyAction = "reject"
)

type Jobs struct {
	jobs       model.JobStore
	apps       model.ApplicationStore
	students   model.StudentStore
	recruiters model.RecruiterStore
	storage    model.Storage
	notifier   *Notifier
	urlTTL     time.Duration
	now        func() time.Time
	logger     *logger.Logger
}

func NewJobs(
	jobs model.JobStore,
	apps model.ApplicationStore,
	students model.StudentStore,
	recruiters model.RecruiterStore,
	storage model.Storage,
	notifier *Notifier,
	urlTTL time.Duration,
	logger *logger.Logger,
) *Jobs {
	return &Jobs{
		jobs:       jobs,
		apps:       apps,
		students:   students,
		recruiters: recruiters,
		storage:    storage,
		notifier:   notifier,
		urlTTL:     urlTTL,
		now:        time.Now,
		logger:     logger,
	}
}

// ListForStudent returns active jobs, optionally narrowed by a job type query.
func (s *Jobs) ListForStudent(ctx context.Context, query string) ([]model.Job, error) {
	filter := model.JobFilter{Status: model.JobStatusActive}

	switch q := strings.ToLower(strings.TrimSpace(query)); q {
	case "", "all":
	default:
		if !model.JobType(q).Valid() {
			return nil, apierrors.NewErrBadRequest("Invalid job type")
		}
		filter.Type = model.JobType(q)
	}

	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *Jobs) GetForStudent(ctx context.Context, roll string, id uuid.UUID) (JobDetails, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return JobDetails{}, notFound(err, msgJobNotFound)
	}
	if job.Status != model.JobStatusActive {
		return JobDetails{}, apierrors.NewErrNotFound(msgJobNotFound)
	}

	applied, err := s.apps.Exists(ctx, id, roll)
	if err != nil {
		return JobDetails{}, fmt.Errorf("failed to check application: %w", err)
	}

	details := JobDetails{Job: job, HasApplied: applied}
	if details.JDURL, err = s.jdURL(ctx, job); err != nil {
		return JobDetails{}, err
	}
	return details, nil
}

// Apply submits the student's form after checking, in order: the job is open,
// the deadline, duplicates, the form and then eligibility.
func (s *Jobs) Apply(ctx context.Context, roll string, id uuid.UUID, form map[string]any) (model.Application, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return model.Application{}, notFound(err, msgJobNotFound)
	}
	if job.Status != model.JobStatusActive {
		return model.Application{}, apierrors.NewErrNotFound(msgJobNotFound)
	}
	if job.Deadline.Before(s.now()) {
		return model.Application{}, apierrors.NewErrBadRequest("Application deadline has passed")
	}

	applied, err := s.apps.Exists(ctx, id, roll)
	if err != nil {
		return model.Application{}, fmt.Errorf("failed to check application: %w", err)
	}
	if applied {
		return model.Application{}, apierrors.NewErrBadRequest("Already applied to this job")
	}

	if form == nil {
		return model.Application{}, apierrors.NewErrBadRequest("Application form is required")
	}

	student, err := s.students.GetByRoll(ctx, roll)
	if err != nil {
		return model.Application{}, notFound(err, "Student data not found")
	}
	if err := checkEligibility(student, job.Eligibility); err != nil {
		return model.Application{}, err
	}

	app, err := s.apps.Create(ctx, model.Application{
		ID:        uuid.New(),
		JobID:     id,
		StudentID: roll,
		Form:      form,
		Status:    model.ApplicationStatusPending,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Application{}, apierrors.NewErrBadRequest("Already applied to this job")
		}
		s.logger.Error("Job service: failed to create application",
			"job_id", id,
			"roll", roll,
			"error", err.Error())
		return model.Application{}, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.Info("Job service: application submitted",
		"job_id", id,
		"roll", roll)

	return app, nil
}

func checkEligibility(student model.Student, e model.Eligibility) error {
	if student.CGPA == nil || *student.CGPA < e.CGPA {
		return apierrors.NewErrBadRequest("CGPA criteria not met")
	}
	if !slices.Contains(e.Branches, student.Branch) {
		return apierrors.NewErrBadRequest("Branch not eligible")
	}
	if !slices.Contains(e.Batches, student.Batch) {
		return apierrors.NewErrBadRequest("Batch year not eligible")
	}
	return nil
}

func (s *Jobs) StudentApplications(ctx context.Context, roll string) ([]model.Application, error) {
	apps, err := s.apps.List(ctx, model.ApplicationFilter{StudentID: roll})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *Jobs) Create(ctx context.Context, coordinatorID string, in JobInput) (model.Job, error) {
	if !in.Type.Valid() {
		return model.Job{}, apierrors.NewErrBadRequest("Invalid job type")
	}
	if in.RecruiterID != nil {
		if _, err := s.recruiters.GetByID(ctx, *in.RecruiterID); err != nil {
			return model.Job{}, notFound(err, "Recruiter not found")
		}
	}

	job, err := s.jobs.Create(ctx, model.Job{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Package:     in.Package,
		Company:     in.Company,
		Type:        in.Type,
		RecruiterID: in.RecruiterID,
		CreatedBy:   coordinatorID,
		Eligibility: in.Eligibility,
		Deadline:    in.Deadline,
		Form:        in.Form,
		Status:      model.JobStatusPendingVerification,
	})
	if err != nil {
		s.logger.Error("Job service: failed to create job",
			"coordinator_id", coordinatorID,
			"error", err.Error())
		return model.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("Job service: job created",
		"job_id", job.ID,
		"coordinator_id", coordinatorID)

	return job, nil
}

func (s *Jobs) ListForCoordinator(ctx context.Context, coordinatorID string, filter model.JobFilter) ([]model.Job, error) {
	filter.CreatedBy = coordinatorID
	jobs, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *Jobs) Pending(ctx context.Context, coordinatorID string) ([]model.Job, error) {
	return s.ListForCoordinator(ctx, coordinatorID, model.JobFilter{Status: model.JobStatusPendingVerification})
}

// owned loads a job posted by the coordinator. Other coordinators' jobs are
// reported as missing.
func (s *Jobs) owned(ctx context.Context, coordinatorID string, id uuid.UUID) (model.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return model.Job{}, notFound(err, msgJobNotFound)
	}
	if job.CreatedBy != coordinatorID {
		return model.Job{}, apierrors.NewErrNotFound(msgJobNotFound)
	}
	return job, nil
}

func (s *Jobs) GetForCoordinator(ctx context.Context, coordinatorID string, id uuid.UUID) (JobDetails, error) {
	job, err := s.owned(ctx, coordinatorID, id)
	if err != nil {
		return JobDetails{}, err
	}

	apps, err := s.apps.List(ctx, model.ApplicationFilter{JobID: &id})
	if err != nil {
		return JobDetails{}, fmt.Errorf("failed to list applications: %w", err)
	}

	details := JobDetails{Job: job, Applications: apps}
	if details.JDURL, err = s.jdURL(ctx, job); err != nil {
		return JobDetails{}, err
	}
	return details, nil
}

func (s *Jobs) Update(ctx context.Context, coordinatorID string, id uuid.UUID, update model.JobUpdate) (model.Job, error) {
	if _, err := s.owned(ctx, coordinatorID, id); err != nil {
		return model.Job{}, err
	}
	if update.Type != nil && !update.Type.Valid() {
		return model.Job{}, apierrors.NewErrBadRequest("Invalid job type")
	}

	job, err := s.jobs.Update(ctx, id, update)
	if err != nil {
		return model.Job{}, notFound(err, msgJobNotFound)
	}

	s.logger.Info("Job service: job updated", "job_id", id)
	return job, nil
}

// Delete deactivates the job; applications are kept.
func (s *Jobs) Delete(ctx context.Context, coordinatorID string, id uuid.UUID) error {
	if _, err := s.owned(ctx, coordinatorID, id); err != nil {
		return err
	}
	if err := s.jobs.SetStatus(ctx, id, model.JobStatusInactive); err != nil {
		return notFound(err, msgJobNotFound)
	}

	s.logger.Info("Job service: job deactivated", "job_id", id)
	return nil
}

// Verify approves or rejects a pending job. Approval notifies eligible
// students; the returned count is the number of emails delivered.
func (s *Jobs) Verify(ctx context.Context, coordinatorID string, id uuid.UUID, action VerifyAction) (model.Job, int, error) {
	job, err := s.owned(ctx, coordinatorID, id)
	if err != nil {
		return model.Job{}, 0, err
	}
	if job.Status != model.JobStatusPendingVerification {
		return model.Job{}, 0, apierrors.NewErrBadRequest("Job is not pending verification")
	}

	var status model.JobStatus
	switch action {
	case VerifyApprove:
		status = model.JobStatusActive
	case VerifyReject:
		status = model.JobStatusInactive
	default:
		return model.Job{}, 0, apierrors.NewErrBadRequest("Invalid action. Must be either 'approve' or 'reject'")
	}

	if err := s.jobs.TransitionStatus(ctx, id, model.JobStatusPendingVerification, status); err != nil {
		if errors.Is(err, model.ErrStatusChanged) {
			return model.Job{}, 0, apierrors.NewErrBadRequest("Job is not pending verification")
		}
		return model.Job{}, 0, notFound(err, msgJobNotFound)
	}
	job.Status = status

	s.logger.Info("Job service: job verified",
		"job_id", id,
		"status", status)

	var notified int
	if status == model.JobStatusActive && s.notifier != nil {
		notified = s.notifier.JobApproved(ctx, job)
	}

	return job, notified, nil
}

// UploadJD stores the job description PDF and returns a download URL.
func (s *Jobs) UploadJD(ctx context.Context, coordinatorID string, id uuid.UUID, file io.Reader, size int64) (string, error) {
	if _, err := s.owned(ctx, coordinatorID, id); err != nil {
		return "", err
	}

	body, err := pdfReader(file, size, MaxJDSize)
	if err != nil {
		return "", err
	}

	key := JDKey(id)
	if err := s.storage.Upload(ctx, key, body, size, pdfContentType); err != nil {
		s.logger.Error("Job service: failed to upload job description",
			"job_id", id,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload job description: %w", err)
	}
	if err := s.jobs.SetJDKey(ctx, id, key); err != nil {
		return "", notFound(err, msgJobNotFound)
	}

	url, err := s.storage.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign job description: %w", err)
	}
	return url, nil
}

// JDKey is the object key of a job's description PDF.
func JDKey(id uuid.UUID) string {
	return "jobs/" + id.String() + "/jd.pdf"
}

func (s *Jobs) jdURL(ctx context.Context, job model.Job) (string, error) {
	if job.JDKey == "" {
		return "", nil
	}
	url, err := s.storage.PresignGet(ctx, job.JDKey, s.urlTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign job description: %w", err)
	}
	return url, nil
}

// CoordinatorApplications lists applications across the coordinator's jobs.
func (s *Jobs) CoordinatorApplications(ctx context.Context, coordinatorID string, jobID *uuid.UUID, limit int) ([]model.Application, error) {
	apps, err := s.apps.List(ctx, model.ApplicationFilter{
		JobID:     jobID,
		CreatedBy: coordinatorID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *Jobs) UpdateApplicationStatus(ctx context.Context, coordinatorID string, jobID uuid.UUID, studentID string, status model.ApplicationStatus) error {
	if !status.Valid() {
		return apierrors.NewErrBadRequest("Invalid application status")
	}
	if _, err := s.owned(ctx, coordinatorID, jobID); err != nil {
		return err
	}

	if err := s.apps.UpdateStatus(ctx, jobID, studentID, status); err != nil {
		return notFound(err, "Application not found")
	}

	s.logger.Info("Job service: application status updated",
		"job_id", jobID,
		"roll", studentID,
		"status", status)
	return nil
}
