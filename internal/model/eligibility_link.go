package model

// EligibilityLink states that in Year, SubjectGroup is an accepted combination
// for Major under AdmissionMethod. SubjectGroupID is nil for methods that need
// no subject-group test. At most one active link exists per
// (major, method, subject group, year).
type EligibilityLink struct {
	ID                int      `json:"id"`
	MajorID           int      `json:"major_id"`
	AdmissionMethodID int      `json:"admission_method_id"`
	SubjectGroupID    *int     `json:"subject_group_id"`
	Year              int      `json:"year"`
	MinScoreRequired  *float64 `json:"min_score_required,omitempty"`
	Activity
	Audit
}

// EligibilityLinkView is a link joined with the codes candidates see.
type EligibilityLinkView struct {
	EligibilityLink
	MajorCode           string  `json:"major_code"`
	MajorName           string  `json:"major_name"`
	AdmissionMethodCode string  `json:"admission_method_code"`
	AdmissionMethodName string  `json:"admission_method_name"`
	SubjectGroupCode    *string `json:"subject_group_code"`
}

// EligibilityLinkFilter narrows admin link listings. Zero values are ignored.
type EligibilityLinkFilter struct {
	MajorID           int
	AdmissionMethodID int
	Year              int
	ActiveOnly        bool
}

// EligibilityLinkRequest is the admin payload for creating or updating a link.
type EligibilityLinkRequest struct {
	MajorID           int      `json:"major_id" binding:"required,gt=0"`
	AdmissionMethodID int      `json:"admission_method_id" binding:"required,gt=0"`
	SubjectGroupID    *int     `json:"subject_group_id" binding:"omitempty,gt=0"`
	Year              int      `json:"year" binding:"required,min=2000,max=2100"`
	MinScoreRequired  *float64 `json:"min_score_required" binding:"omitempty,gte=0,lte=30"`
	IsActive          *bool    `json:"is_active"`
}
