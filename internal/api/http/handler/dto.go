package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/tap-portal-server/internal/model"
)

type studentResponse struct {
	RollNumber      string     `json:"roll_number"`
	Email           string     `json:"reg_email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Mobile          string     `json:"mobile"`
	LinkedIn        string     `json:"linkedin"`
	Branch          string     `json:"branch"`
	Batch           int        `json:"batch"`
	CGPA            *float64   `json:"cgpa"`
	EmailVerified   bool       `json:"email_verified"`
	Placed          bool       `json:"placed"`
	PlacedJob       *uuid.UUID `json:"placed_job,omitempty"`
	ResumeUpdatedAt *time.Time `json:"resume_updated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toStudent(s model.Student) studentResponse {
	return studentResponse{
		RollNumber:      s.RollNumber,
		Email:           s.Email,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Mobile:          s.Mobile,
		LinkedIn:        s.LinkedIn,
		Branch:          s.Branch,
		Batch:           s.Batch,
		CGPA:            s.CGPA,
		EmailVerified:   s.EmailVerified,
		Placed:          s.Placed,
		PlacedJob:       s.PlacedJob,
		ResumeUpdatedAt: s.ResumeUpdatedAt,
		CreatedAt:       s.CreatedAt,
	}
}

func toStudents(in []model.Student) []studentResponse {
	out := make([]studentResponse, 0, len(in))
	for _, s := range in {
		out = append(out, toStudent(s))
	}
	return out
}

type coordinatorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type eligibilityBody struct {
	CGPA     float64  `json:"cgpa" validate:"gte=0,lte=10"`
	Branches []string `json:"branches" validate:"required,min=1"`
	Batches  []int    `json:"batches" validate:"required,min=1"`
}

func (e eligibilityBody) model() model.Eligibility {
	return model.Eligibility{CGPA: e.CGPA, Branches: e.Branches, Batches: e.Batches}
}

type jobResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"jd"`
	Location    string          `json:"location"`
	Package     string          `json:"package"`
	Company     string          `json:"company"`
	Type        model.JobType   `json:"job_type"`
	RecruiterID *uuid.UUID      `json:"recruiter,omitempty"`
	CreatedBy   string          `json:"created_by"`
	Eligibility eligibilityBody `json:"eligibility"`
	Deadline    time.Time       `json:"deadline"`
	Form        map[string]any  `json:"form"`
	Status      model.JobStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toJob(j model.Job) jobResponse {
	return jobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Package:     j.Package,
		Company:     j.Company,
		Type:        j.Type,
		RecruiterID: j.RecruiterID,
		CreatedBy:   j.CreatedBy,
		Eligibility: eligibilityBody{
			CGPA:     j.Eligibility.CGPA,
			Branches: j.Eligibility.Branches,
			Batches:  j.Eligibility.Batches,
		},
		Deadline:  j.Deadline,
		Form:      j.Form,
		Status:    j.Status,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

func toJobs(in []model.Job) []jobResponse {
	out := make([]jobResponse, 0, len(in))
	for _, j := range in {
		out = append(out, toJob(j))
	}
	return out
}

type applicationResponse struct {
	ID           uuid.UUID               `json:"id"`
	JobID        uuid.UUID               `json:"job_id"`
	StudentID    string                  `json:"student_id"`
	Form         map[string]any          `json:"form"`
	Status       model.ApplicationStatus `json:"status"`
	JobTitle     string                  `json:"job_title,omitempty"`
	Company      string                  `json:"company,omitempty"`
	StudentName  string                  `json:"student_name,omitempty"`
	StudentEmail string                  `json:"student_email,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func toApplications(in []model.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(in))
	for _, a := range in {
		out = append(out, toApplication(a))
	}
	return out
}

func toApplication(a model.Application) applicationResponse {
	return applicationResponse{
		ID:           a.ID,
		JobID:        a.JobID,
		StudentID:    a.StudentID,
		Form:         a.Form,
		Status:       a.Status,
		JobTitle:     a.JobTitle,
		Company:      a.Company,
		StudentName:  a.StudentName,
		StudentEmail: a.StudentEmail,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type recruiterResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRecruiter(r model.Recruiter) recruiterResponse {
	return recruiterResponse{
		ID:          r.ID,
		CompanyName: r.CompanyName,
		Name:        r.Name,
		Email:       r.Email,
		IsVerified:  r.IsVerified,
		CreatedAt:   r.CreatedAt,
	}
}
