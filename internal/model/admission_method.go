package model

// AdmissionMethod is a way of being admitted (national exam scores, transcript review, ...).
type AdmissionMethod struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Activity
	Audit
}
