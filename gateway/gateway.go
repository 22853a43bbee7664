// Package gateway is the boundary to the generative-AI service that analyses
// statements, generates brand images, answers chat messages and speaks text.
package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"finanzago-go-be/models"
)

var (
	// ErrGateway wraps every transport, model or decoding failure.
	ErrGateway = errors.New("gateway error")
	// ErrNoImage is returned when the image model answers without an image.
	ErrNoImage = fmt.Errorf("%w: no image returned", ErrGateway)
	// ErrNoAudio is returned when the speech model answers without audio.
	ErrNoAudio = fmt.Errorf("%w: no audio returned", ErrGateway)
)

// Part is one element of an analysis payload: either plain text or binary
// data tagged with its MIME type.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BlobPart(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

// IsBlob reports whether the part carries binary data.
func (p Part) IsBlob() bool {
	return p.Data != nil
}

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatTurn is one prior message of a support conversation.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Source is a web page the chat answer was grounded on.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type ChatReply struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Image is a generated brand asset.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL renders the image as a data URL suitable for storing as the custom logo.
func (i Image) DataURL() string {
	mimeType := i.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Gateway is the contract consumed by the rest of the service.
type Gateway interface {
	Analyze(ctx context.Context, payload []Part) (*models.FinancialAnalysis, error)
	GenerateBrandAsset(ctx context.Context, prompt string) (*Image, error)
	Chat(ctx context.Context, message string, prior []ChatTurn) (*ChatReply, error)
	// SynthesizeSpeech returns a WAV file ready for playback.
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}
