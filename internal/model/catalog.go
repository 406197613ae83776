package model

import "time"

// Activatable is implemented by every catalog entity that can be hidden from
// candidates without being deleted.
type Activatable interface {
	Active() bool
}

// Activity is the shared soft-delete flag embedded by catalog entities.
type Activity struct {
	IsActive bool `json:"is_active"`
}

// Active reports whether the entity is visible to candidates.
func (a Activity) Active() bool { return a.IsActive }

// Audit records who created and last touched a catalog row.
type Audit struct {
	CreatedBy *int      `json:"created_by,omitempty"`
	UpdatedBy *int      `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogKind names a catalog table that supports the active toggle.
type CatalogKind string

const (
	CatalogUniversities     CatalogKind = "universities"
	CatalogMajors           CatalogKind = "majors"
	CatalogAdmissionMethods CatalogKind = "admission-methods"
	CatalogSubjectGroups    CatalogKind = "subject-groups"
	CatalogEligibilityLinks CatalogKind = "eligibility-links"
)

var catalogTables = map[CatalogKind]string{
	CatalogUniversities:     "universities",
	CatalogMajors:           "majors",
	CatalogAdmissionMethods: "admission_methods",
	CatalogSubjectGroups:    "subject_groups",
	CatalogEligibilityLinks: "major_admission_subject_groups",
}

// Table returns the backing table for the kind, or false for unknown kinds.
func (k CatalogKind) Table() (string, bool) {
	t, ok := catalogTables[k]
	return t, ok
}

// SetActiveRequest toggles the active flag of any catalog entity.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
