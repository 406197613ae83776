package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotSubstitutesNA(t *testing.T) {
	p := &CandidateProfile{
		Email:        "an@example.vn",
		PersonalInfo: PersonalInfo{FullName: "Nguyễn Văn An", Phone: "  "},
	}

	s := p.Snapshot()

	assert.Equal(t, "Nguyễn Văn An", s.FullName)
	assert.Equal(t, NotAvailable, s.Phone)
	assert.Equal(t, NotAvailable, s.IDNumber)
	assert.Equal(t, NotAvailable, s.HighSchool)
	assert.Equal(t, "an@example.vn", s.Email)
	assert.Equal(t, "", s.PriorityArea)
}

func TestSnapshotSharesNoMemory(t *testing.T) {
	gpa := 8.5
	p := &CandidateProfile{
		PersonalInfo: PersonalInfo{PriorityObjects: []string{"01"}},
		AcademicInfo: AcademicInfo{GPA12: &gpa},
	}

	s := p.Snapshot()
	p.PersonalInfo.PriorityObjects[0] = "06"
	*p.AcademicInfo.GPA12 = 4.0

	assert.Equal(t, []string{"01"}, s.PriorityObjects)
	assert.Equal(t, 8.5, *s.GPA12)
}

func TestPersonalInfoIsEmpty(t *testing.T) {
	var nilInfo *PersonalInfo
	assert.True(t, nilInfo.IsEmpty())
	assert.True(t, (&PersonalInfo{FullName: "   "}).IsEmpty())
	assert.False(t, (&PersonalInfo{Phone: "0912345678"}).IsEmpty())
}

func TestApplicationStatusValid(t *testing.T) {
	assert.True(t, ApplicationStatusAdditionalRequired.Valid())
	assert.False(t, ApplicationStatus("archived").Valid())
}

func TestCatalogKindTable(t *testing.T) {
	table, ok := CatalogEligibilityLinks.Table()
	assert.True(t, ok)
	assert.Equal(t, "major_admission_subject_groups", table)

	_, ok = CatalogKind("users").Table()
	assert.False(t, ok)
}

func TestActivityThroughInterface(t *testing.T) {
	var a Activatable = &Major{Activity: Activity{IsActive: true}}
	assert.True(t, a.Active())
	a = &University{}
	assert.False(t, a.Active())
}
