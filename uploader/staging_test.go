package uploader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzago-go-be/gateway"
	"finanzago-go-be/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"statement.pdf", true},
		{"STATEMENT.PDF", true},
		{"scan.png", true},
		{"scan.jpg", true},
		{"scan.JPEG", true},
		{"export.csv", true},
		{"export.xlsx", false},
		{"notes.txt", false},
		{"pdf", false},
		{"archive.pdf.zip", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.name), tt.name)
	}
}

func TestStaging_AddAllCountsSkipped(t *testing.T) {
	s := NewStaging()

	added, skipped := s.AddAll([]Upload{
		{Name: "jan.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1")},
		{Name: "feb.docx", Data: []byte("x")},
		{Name: "mar.csv", Data: []byte("date,amount")},
		{Name: "virus.exe", Data: []byte("MZ")},
	})

	assert.Equal(t, 2, skipped)
	require.Len(t, added, 2)
	assert.Equal(t, "jan.pdf", added[0].Name)
	assert.Equal(t, "text/csv", added[1].MIMEType)
	assert.Len(t, added[0].ID, 9)
	assert.NotEqual(t, added[0].ID, added[1].ID)
	assert.Equal(t, added, s.Files())
	assert.Equal(t, "2 file(s) ignored. Use PDF, PNG, JPG or CSV.", SkippedWarning(skipped))
	assert.Equal(t, "", SkippedWarning(0))
}

func TestStaging_Add_Unsupported(t *testing.T) {
	_, err := NewStaging().Add(Upload{Name: "a.gif"})
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestStaging_Remove(t *testing.T) {
	s := NewStaging()
	a, err := s.Add(Upload{Name: "a.png", Data: []byte{1}})
	require.NoError(t, err)
	b, err := s.Add(Upload{Name: "b.png", Data: []byte{2}})
	require.NoError(t, err)

	assert.True(t, s.Remove(a.ID))
	assert.False(t, s.Remove(a.ID))
	assert.Equal(t, []models.StagedFile{b}, s.Files())

	assert.True(t, s.Remove(b.ID))
	assert.Empty(t, s.Files())
}

func TestDetectMIMEType(t *testing.T) {
	assert.Equal(t, "image/png", detectMIMEType("x.png", "image/png"))
	assert.Equal(t, "application/pdf", detectMIMEType("x.pdf", "application/octet-stream"))
	assert.Equal(t, "image/jpeg", detectMIMEType("x.JPG", ""))
	assert.Equal(t, "text/csv", detectMIMEType("x.csv", ""))
}

func TestCompose_OrderAndTrim(t *testing.T) {
	files := []models.StagedFile{
		{ID: "1", Name: "a.pdf", MIMEType: "application/pdf", Data: []byte("A")},
		{ID: "2", Name: "b.png", MIMEType: "image/png", Data: []byte("B")},
	}

	payload, err := Compose("  10/01 MARKET 45,90  \n", files)
	require.NoError(t, err)

	assert.Equal(t, []gateway.Part{
		gateway.TextPart("10/01 MARKET 45,90"),
		gateway.BlobPart([]byte("A"), "application/pdf"),
		gateway.BlobPart([]byte("B"), "image/png"),
	}, payload)
}

func TestCompose_FilesOnly(t *testing.T) {
	payload, err := Compose("   ", []models.StagedFile{{Data: []byte("A"), MIMEType: "text/csv"}})
	require.NoError(t, err)
	require.Len(t, payload, 1)
	assert.True(t, payload[0].IsBlob())
}

func TestCompose_TextLimit(t *testing.T) {
	atLimit := strings.Repeat("a", TextLimit)
	_, err := Compose(atLimit, nil)
	assert.NoError(t, err)

	_, err = Compose(atLimit+"a", nil)
	assert.ErrorIs(t, err, ErrTextTooLong)

	// characters, not bytes
	_, err = Compose(strings.Repeat("ç", TextLimit), nil)
	assert.NoError(t, err)
}

func TestCompose_Empty(t *testing.T) {
	_, err := Compose("", nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}
