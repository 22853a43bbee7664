// Package uploader stages statement files and composes analysis payloads.
package uploader

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"finanzago-go-be/gateway"
	"finanzago-go-be/models"
)

// TextLimit is the maximum length, in characters, of the free-text field.
const TextLimit = 50000

// AllowedExtensions lists the accepted file extensions.
var AllowedExtensions = []string{"pdf", "png", "jpg", "jpeg", "csv"}

// BankLinkText is submitted by the simulated bank connection.
const BankLinkText = "SIMULATED_BANK_DATA: CHECKING ACCOUNT - BALANCE R$ 5,420.00 - RECENT SPENDING ON RESTAURANTS AND STREAMING"

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrTextTooLong     = fmt.Errorf("text exceeds %d characters", TextLimit)
	ErrEmptyPayload    = errors.New("nothing to analyse")
)

// mimeTypes is used when the client sends no usable type.
var mimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"csv":  "text/csv",
}

// Upload is a file as received from the client.
type Upload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Staging holds the files a user has selected but not yet submitted.
type Staging struct {
	mu    sync.Mutex
	files []models.StagedFile
}

func NewStaging() *Staging {
	return &Staging{}
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Allowed reports whether name has an accepted extension.
func Allowed(name string) bool {
	return slices.Contains(AllowedExtensions, Extension(name))
}

// Add stages one file.
func (s *Staging) Add(u Upload) (models.StagedFile, error) {
	if !Allowed(u.Name) {
		return models.StagedFile{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, u.Name)
	}

	f := models.StagedFile{
		ID:       newStagedID(),
		Name:     u.Name,
		MIMEType: detectMIMEType(u.Name, u.MIMEType),
		Data:     u.Data,
	}

	s.mu.Lock()
	s.files = append(s.files, f)
	s.mu.Unlock()

	return f, nil
}

// AddAll stages every accepted file and counts the skipped ones.
func (s *Staging) AddAll(uploads []Upload) (added []models.StagedFile, skipped int) {
	added = make([]models.StagedFile, 0, len(uploads))
	for _, u := range uploads {
		f, err := s.Add(u)
		if err != nil {
			skipped++
			continue
		}
		added = append(added, f)
	}
	return added, skipped
}

// Remove drops the staged file with id and reports whether it existed.
func (s *Staging) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.files {
		if f.ID == id {
			s.files = slices.Delete(s.files, i, i+1)
			return true
		}
	}
	return false
}

// Files returns the staged files in the order they were added.
func (s *Staging) Files() []models.StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.files)
}

// SkippedWarning is the aggregate message for rejected files.
func SkippedWarning(skipped int) string {
	if skipped <= 0 {
		return ""
	}
	return fmt.Sprintf("%d file(s) ignored. Use PDF, PNG, JPG or CSV.", skipped)
}

// TextOverLimit reports whether text is too long to be submitted.
func TextOverLimit(text string) bool {
	return utf8.RuneCountInString(text) > TextLimit
}

// Compose builds the gateway payload: the trimmed text first, then the files
// in staging order. Text over the limit blocks the submission.
func Compose(text string, files []models.StagedFile) ([]gateway.Part, error) {
	if TextOverLimit(text) {
		return nil, ErrTextTooLong
	}

	payload := make([]gateway.Part, 0, len(files)+1)
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		payload = append(payload, gateway.TextPart(trimmed))
	}
	for _, f := range files {
		payload = append(payload, gateway.BlobPart(f.Data, f.MIMEType))
	}

	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	return payload, nil
}

func detectMIMEType(name, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimeTypes[Extension(name)]
}

func newStagedID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
