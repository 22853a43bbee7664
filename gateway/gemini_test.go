package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"finanzago-go-be/logging"
)

func TestToGenaiParts_KeepsOrderAndAppendsInstruction(t *testing.T) {
	payload := []Part{
		TextPart("statement text"),
		BlobPart([]byte("%PDF"), "application/pdf"),
	}

	parts := toGenaiParts(payload, "instruction")

	require.Len(t, parts, 3)
	assert.Equal(t, "statement text", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "application/pdf", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte("%PDF"), parts[1].InlineData.Data)
	assert.Equal(t, "instruction", parts[2].Text)
}

func TestToHistory(t *testing.T) {
	history := toHistory([]ChatTurn{
		{Role: RoleUser, Text: "How do I save?"},
		{Role: RoleModel, Text: "Track your expenses."},
		{Role: "system", Text: "ignored"},
		{Role: RoleUser, Text: "   "},
	})

	require.Len(t, history, 2)
	assert.Equal(t, genai.RoleUser, history[0].Role)
	assert.Equal(t, genai.RoleModel, history[1].Role)
	assert.Equal(t, "Track your expenses.", history[1].Parts[0].Text)
}

func TestResponseText_SkipsThoughts(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "thinking...", Thought: true},
			{Text: `{"a":`},
			{Text: `1}`},
		}},
	}}}

	assert.Equal(t, `{"a":1}`, responseText(resp))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
	assert.Equal(t, "", responseText(nil))
}

func TestFirstInlineData(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "here is your logo"},
			{InlineData: &genai.Blob{Data: []byte("a"), MIMEType: "audio/L16"}},
			{InlineData: &genai.Blob{Data: []byte("i"), MIMEType: "image/png"}},
		}},
	}}}

	img := firstInlineData(resp, "image/")
	require.NotNil(t, img)
	assert.Equal(t, []byte("i"), img.Data)

	audio := firstInlineData(resp, "audio/")
	require.NotNil(t, audio)
	assert.Equal(t, []byte("a"), audio.Data)

	assert.Nil(t, firstInlineData(&genai.GenerateContentResponse{}, "image/"))
}

func TestGroundingSources(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		GroundingMetadata: &genai.GroundingMetadata{GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{Title: "Selic", URI: "https://example.com/selic"}},
			{},
		}},
	}}}

	assert.Equal(t, []Source{{Title: "Selic", URI: "https://example.com/selic"}}, groundingSources(resp))
	assert.Equal(t, []Source{}, groundingSources(&genai.GenerateContentResponse{}))
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(t.Context(), "", Models{}, nil)
	assert.Error(t, err)
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
	})
	require.NoError(t, err)
	return &Gemini{client: client, models: Models{Analysis: "test-model"}, logger: logging.Discard()}
}

func TestAnalyze_KeepsDeadlineCause(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := g.Analyze(ctx, []Part{TextPart("statement")})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGateway)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnalyze_DecodesResponse(t *testing.T) {
	analysis := `{"summary":"ok","totalIncome":10,"totalExpenses":4,"topCategories":[],"suggestions":[],"transactions":[]}`
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": analysis}}},
			}},
		})
	})

	got, err := g.Analyze(context.Background(), []Part{TextPart("statement")})
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Summary)
	assert.InDelta(t, 6, got.Balance(), 1e-9)
}
