package model

import (
	"strings"
	"time"
)

// NotAvailable fills blank display fields of a profile snapshot.
const NotAvailable = "N/A"

// PersonalInfo is the identity and contact part of a candidate profile.
type PersonalInfo struct {
	FullName         string   `json:"full_name" binding:"omitempty,max=150"`
	DateOfBirth      string   `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender           string   `json:"gender" binding:"omitempty,oneof=male female other"`
	IDNumber         string   `json:"id_number" binding:"omitempty,id_number"`
	Phone            string   `json:"phone" binding:"omitempty,vn_phone"`
	Email            string   `json:"email" binding:"omitempty,email,max=255"`
	PermanentAddress string   `json:"permanent_address" binding:"omitempty,max=500"`
	ContactAddress   string   `json:"contact_address,omitempty" binding:"omitempty,max=500"`
	PriorityArea     string   `json:"priority_area,omitempty" binding:"omitempty,oneof=KV1 KV2 KV2-NT KV3"`
	PriorityObjects  []string `json:"priority_objects,omitempty" binding:"omitempty,max=10,dive,max=20"`
}

// IsEmpty reports whether no personal field was supplied at all.
func (p *PersonalInfo) IsEmpty() bool {
	if p == nil {
		return true
	}
	return strings.TrimSpace(p.FullName) == "" &&
		p.DateOfBirth == "" &&
		p.Gender == "" &&
		p.IDNumber == "" &&
		p.Phone == "" &&
		strings.TrimSpace(p.Email) == "" &&
		strings.TrimSpace(p.PermanentAddress) == "" &&
		strings.TrimSpace(p.ContactAddress) == "" &&
		p.PriorityArea == "" &&
		len(p.PriorityObjects) == 0
}

// AcademicInfo is the high-school record for grades 10 to 12.
type AcademicInfo struct {
	HighSchool     string   `json:"high_school,omitempty" binding:"omitempty,max=255"`
	GraduationYear *int     `json:"graduation_year,omitempty" binding:"omitempty,min=1990,max=2100"`
	GPA10          *float64 `json:"gpa_10,omitempty" binding:"omitempty,gte=0,lte=10"`
	GPA11          *float64 `json:"gpa_11,omitempty" binding:"omitempty,gte=0,lte=10"`
	GPA12          *float64 `json:"gpa_12,omitempty" binding:"omitempty,gte=0,lte=10"`
	Conduct10      string   `json:"conduct_10,omitempty" binding:"omitempty,oneof=good fair average weak"`
	Conduct11      string   `json:"conduct_11,omitempty" binding:"omitempty,oneof=good fair average weak"`
	Conduct12      string   `json:"conduct_12,omitempty" binding:"omitempty,oneof=good fair average weak"`
}

// CandidateProfile is the single living profile of a candidate. Every
// submission overwrites it with the latest values.
type CandidateProfile struct {
	ID           int          `json:"id"`
	UserID       int          `json:"user_id"`
	Email        string       `json:"email"`
	PersonalInfo PersonalInfo `json:"personal_info"`
	AcademicInfo AcademicInfo `json:"academic_info"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ProfileSnapshot is the frozen copy of a profile embedded in an application.
type ProfileSnapshot struct {
	FullName         string   `json:"full_name"`
	DateOfBirth      string   `json:"date_of_birth"`
	Gender           string   `json:"gender"`
	IDNumber         string   `json:"id_number"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email"`
	PermanentAddress string   `json:"permanent_address"`
	PriorityArea     string   `json:"priority_area"`
	PriorityObjects  []string `json:"priority_objects"`
	HighSchool       string   `json:"high_school"`
	GraduationYear   *int     `json:"graduation_year"`
	GPA10            *float64 `json:"gpa_10"`
	GPA11            *float64 `json:"gpa_11"`
	GPA12            *float64 `json:"gpa_12"`
	Conduct10        string   `json:"conduct_10"`
	Conduct11        string   `json:"conduct_11"`
	Conduct12        string   `json:"conduct_12"`
}

// Snapshot copies the profile into a value that shares no memory with it.
func (p *CandidateProfile) Snapshot() ProfileSnapshot {
	pi, ai := p.PersonalInfo, p.AcademicInfo
	s := ProfileSnapshot{
		FullName:         orNA(pi.FullName),
		DateOfBirth:      orNA(pi.DateOfBirth),
		Gender:           orNA(pi.Gender),
		IDNumber:         orNA(pi.IDNumber),
		Phone:            orNA(pi.Phone),
		Email:            p.Email,
		PermanentAddress: orNA(pi.PermanentAddress),
		PriorityArea:     pi.PriorityArea,
		PriorityObjects:  append([]string{}, pi.PriorityObjects...),
		HighSchool:       orNA(ai.HighSchool),
		GraduationYear:   copyPtr(ai.GraduationYear),
		GPA10:            copyPtr(ai.GPA10),
		GPA11:            copyPtr(ai.GPA11),
		GPA12:            copyPtr(ai.GPA12),
		Conduct10:        ai.Conduct10,
		Conduct11:        ai.Conduct11,
		Conduct12:        ai.Conduct12,
	}
	return s
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return NotAvailable
	}
	return v
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
