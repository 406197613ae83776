package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/model"
)

// Sentinel errors for document uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidDocumentType = errors.New("invalid document type")
)

// Allowed document MIME types, detected from content rather than the client header.
var allowedMIMETypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

var documentTypes = map[model.DocumentType]bool{
	model.DocumentTranscript:  true,
	model.DocumentIDCard:      true,
	model.DocumentCertificate: true,
	model.DocumentPriority:    true,
	model.DocumentOther:       true,
}

// DocumentService stores candidate proofs on local disk.
type DocumentService struct {
	cfg       *config.Config
	documents DocumentStore
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(cfg *config.Config, documents DocumentStore) *DocumentService {
	return &DocumentService{cfg: cfg, documents: documents}
}

// Upload saves the file with a UUID filename and records it for the candidate.
func (s *DocumentService) Upload(ctx context.Context, candidateID int, docType model.DocumentType, file multipart.File, header *multipart.FileHeader) (*model.DocumentProof, error) {
	if docType == "" {
		docType = model.DocumentOther
	}
	if !documentTypes[docType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocumentType, docType)
	}
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	// Sniff the content type from the first 512 bytes.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.New()
	destPath := filepath.Join(s.cfg.UploadDir, id.String()+ext)
	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(dst, file)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	doc := &model.DocumentProof{
		ID:               id,
		CandidateID:      candidateID,
		DocumentType:     docType,
		OriginalFilename: filepath.Base(header.Filename),
		StoredPath:       destPath,
		ContentType:      contentType,
		SizeBytes:        written,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		_ = os.Remove(destPath)
		return nil, fmt.Errorf("record document: %w", err)
	}
	return doc, nil
}

// List returns the candidate's documents.
func (s *DocumentService) List(ctx context.Context, candidateID int) ([]model.DocumentProof, error) {
	docs, err := s.documents.ListByCandidate(ctx, candidateID)
	if docs == nil && err == nil {
		docs = []model.DocumentProof{}
	}
	return docs, err
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
