package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// SubjectGroup is a named set of exam subjects, e.g. A00 = math, physics, chemistry.
type SubjectGroup struct {
	ID       int      `json:"id"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
	Activity
	Audit
}

// Subject returns the group's own spelling of name. Matching ignores case and
// Unicode composition, so "toán", "Toán" and a decomposed "Toán" all
// resolve to the catalog entry.
func (g *SubjectGroup) Subject(name string) (string, bool) {
	key := SubjectKey(name)
	for _, s := range g.Subjects {
		if SubjectKey(s) == key {
			return s, true
		}
	}
	return "", false
}

// SubjectKey is the comparison form of a subject name: trimmed, case-folded
// and NFC-composed.
func SubjectKey(name string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return norm.NFC.String(cases.Fold().String(strings.TrimSpace(name)))
}
