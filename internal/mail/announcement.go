// Package mail renders outbound portal emails and provides mailers that do not
// depend on a cloud provider.
package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// DeadlineLayout formats job deadlines in announcements.
const DeadlineLayout = "02 January 2006"

const htmlBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>New Job Opportunity: {{.Title}}</h2>
  <p>A new opening matching your profile has been posted on the placement portal.</p>
  <table cellpadding="6">
    <tr><td><b>Company</b></td><td>{{.Company}}</td></tr>
    <tr><td><b>Type</b></td><td>{{.Type}}</td></tr>
    <tr><td><b>Location</b></td><td>{{.Location}}</td></tr>
    <tr><td><b>Package</b></td><td>{{.Package}}</td></tr>
    <tr><td><b>Eligibility</b></td><td>{{.Eligibility}}</td></tr>
    <tr><td><b>Deadline</b></td><td>{{.Deadline}}</td></tr>
  </table>
  <p><a href="{{.PortalURL}}">Log in to the portal</a> to view details and apply.</p>
  <p>Training and Placement Cell</p>
</body>
</html>
`

const textBody = `New Job Opportunity: {{.Title}}

Company:     {{.Company}}
Type:        {{.Type}}
Location:    {{.Location}}
Package:     {{.Package}}
Eligibility: {{.Eligibility}}
Deadline:    {{.Deadline}}

Log in to the portal to view details and apply: {{.PortalURL}}

Training and Placement Cell
`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("announcement.html").Parse(htmlBody))
	textTmpl = texttemplate.Must(texttemplate.New("announcement.txt").Parse(textBody))
)

type announcementData struct {
	Title       string
	Company     string
	Type        string
	Location    string
	Package     string
	Eligibility string
	Deadline    string
	PortalURL   string
}

// JobAnnouncement renders the email sent to eligible students when a job is
// approved. Recipients are left for the caller to set.
func JobAnnouncement(job model.Job, portalURL string) (model.Email, error) {
	data := announcementData{
		Title:       job.Title,
		Company:     job.Company,
		Type:        JobTypeLabel(job.Type),
		Location:    job.Location,
		Package:     job.Package,
		Eligibility: EligibilitySummary(job.Eligibility),
		Deadline:    job.Deadline.Format(DeadlineLayout),
		PortalURL:   portalURL,
	}

	var html, text bytes.Buffer
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return model.Email{}, fmt.Errorf("failed to render html body: %w", err)
	}
	if err := textTmpl.Execute(&text, data); err != nil {
		return model.Email{}, fmt.Errorf("failed to render text body: %w", err)
	}

	return model.Email{
		Subject: fmt.Sprintf("New Job Opportunity: %s at %s", job.Title, job.Company),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// JobTypeLabel returns the human readable job type.
func JobTypeLabel(t model.JobType) string {
	switch t {
	case model.JobTypeIntern:
		return "Internship"
	case model.JobTypeFTE:
		return "Full Time"
	case model.JobTypeInternFTE:
		return "Internship + Full Time"
	}
	return string(t)
}

// EligibilitySummary renders criteria as "CGPA >= 7.00; Branches: CSE, ECE; Batches: 2022".
func EligibilitySummary(e model.Eligibility) string {
	parts := []string{"CGPA >= " + strconv.FormatFloat(e.CGPA, 'f', 2, 64)}
	if len(e.Branches) > 0 {
		parts = append(parts, "Branches: "+strings.Join(e.Branches, ", "))
	}
	if len(e.Batches) > 0 {
		batches := make([]string, len(e.Batches))
		for i, b := range e.Batches {
			batches[i] = strconv.Itoa(b)
		}
		parts = append(parts, "Batches: "+strings.Join(batches, ", "))
	}
	return strings.Join(parts, "; ")
}
