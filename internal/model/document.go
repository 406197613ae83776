package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType classifies uploaded proofs.
type DocumentType string

const (
	DocumentTranscript  DocumentType = "transcript"
	DocumentIDCard      DocumentType = "id_card"
	DocumentCertificate DocumentType = "certificate"
	DocumentPriority    DocumentType = "priority_proof"
	DocumentOther       DocumentType = "other"
)

// DocumentProof is a file a candidate uploaded before attaching it to an application.
type DocumentProof struct {
	ID               uuid.UUID    `json:"id"`
	CandidateID      int          `json:"candidate_id"`
	DocumentType     DocumentType `json:"document_type"`
	OriginalFilename string       `json:"original_filename"`
	StoredPath       string       `json:"-"`
	ContentType      string       `json:"content_type"`
	SizeBytes        int64        `json:"size_bytes"`
	UploadedAt       time.Time    `json:"uploaded_at"`
}
