package model

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus enumerates application states. Transition legality is
// left to administrators.
type ApplicationStatus string

const (
	ApplicationStatusPending            ApplicationStatus = "pending"
	ApplicationStatusProcessing         ApplicationStatus = "processing"
	ApplicationStatusAdditionalRequired ApplicationStatus = "additional_required"
	ApplicationStatusApproved           ApplicationStatus = "approved"
	ApplicationStatusRejected           ApplicationStatus = "rejected"
	ApplicationStatusCancelled          ApplicationStatus = "cancelled"
)

// Valid reports whether s is a member of the status enum.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending,
		ApplicationStatusProcessing,
		ApplicationStatusAdditionalRequired,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
		ApplicationStatusCancelled:
		return true
	}
	return false
}

// ExamScore is one subject result attached to an application.
type ExamScore struct {
	SubjectCode string  `json:"subject_code"`
	Score       float64 `json:"score"`
}

// Application is one submission. CandidateProfileSnapshot is frozen at
// submission time; later profile edits never change it.
type Application struct {
	ID                       uuid.UUID         `json:"id"`
	CandidateID              int               `json:"candidate_id"`
	UniversityID             int               `json:"university_id"`
	MajorID                  int               `json:"major_id"`
	AdmissionMethodID        int               `json:"admission_method_id"`
	SubjectGroupID           *int              `json:"subject_group_id"`
	Year                     int               `json:"year"`
	CandidateProfileSnapshot ProfileSnapshot   `json:"candidate_profile_snapshot"`
	ExamScores               []ExamScore       `json:"exam_scores"`
	Documents                []uuid.UUID       `json:"documents"`
	Status                   ApplicationStatus `json:"status"`
	AdminNote                string            `json:"admin_note,omitempty"`
	SubmissionDate           time.Time         `json:"submission_date"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

// ApplicationChoice is what the candidate applies for.
type ApplicationChoice struct {
	UniversityID      int  `json:"university_id" binding:"required,gt=0"`
	MajorID           int  `json:"major_id" binding:"required,gt=0"`
	AdmissionMethodID int  `json:"admission_method_id" binding:"required,gt=0"`
	SubjectGroupID    *int `json:"subject_group_id" binding:"omitempty,gt=0"`
	Year              int  `json:"year" binding:"required,min=2000,max=2100"`
}

// SubmitApplicationRequest is the candidate submission payload.
type SubmitApplicationRequest struct {
	PersonalInfo      *PersonalInfo      `json:"personal_info" binding:"required"`
	AcademicInfo      *AcademicInfo      `json:"academic_info"`
	ApplicationChoice *ApplicationChoice `json:"application_choice" binding:"required"`
	ExamScores        map[string]float64 `json:"exam_scores"`
	DocumentIDs       []string           `json:"document_ids" binding:"omitempty,max=20"`
}

// ApplicationFilter narrows the admin application listing.
type ApplicationFilter struct {
	Status       ApplicationStatus
	UniversityID int
	Year         int
}

// UpdateApplicationStatusRequest is the admin adjudication payload.
type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" binding:"required"`
	Note   string            `json:"note" binding:"omitempty,max=1000"`
}
