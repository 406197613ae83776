package model

// Major is a field of study offered by one university. Code and name are
// unique within the university.
type Major struct {
	ID           int    `json:"id"`
	UniversityID int    `json:"university_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Quota        *int   `json:"quota,omitempty"`
	Activity
	Audit
}
