package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"finanzago-go-be/logging"
	"finanzago-go-be/models"
)

// Models names the Gemini model used for each operation.
type Models struct {
	Analysis string
	Image    string
	Chat     string
	Speech   string
	Voice    string
}

const analysisPrompt = `Analyse the bank statements or transaction lists above (there may be several files or texts combined).
Consolidate everything into a single financial view and return structured JSON with:
- summary: one paragraph on the consolidated financial health
- totalExpenses: sum of all expenses across every document
- totalIncome: sum of all income across every document
- topCategories: consolidated array of {category, amount}
- suggestions: array of practical saving tips based on the whole data set
- transactions: array with EVERY individual transaction found: {date, description, amount, category, type: "expense" | "income"}
Mention suspicious or unnecessary recurring transactions in the suggestions.
Answer with the JSON only.`

const chatInstruction = `You are a financial advisor specialised in household budgeting and investing.
Help the user save and invest better. Use Google Search when current rates, inflation or economic news are needed.`

const speechPrefix = "Say in a professional and encouraging tone: "

const brandPromptTemplate = `A professional, minimalist and high-end logo for a fintech brand named "%s".
The logo should feature a modern abstract symbol representing growth, flow and artificial intelligence.
Colors: deep indigo blue, vibrant cyan and silver accents.
Style: flat design, vector style, white background, clean lines, suitable for a mobile app icon. High quality.`

const analysisThinkingBudget int32 = 32768

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary":       {Type: genai.TypeString},
		"totalExpenses": {Type: genai.TypeNumber},
		"totalIncome":   {Type: genai.TypeNumber},
		"topCategories": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"category": {Type: genai.TypeString},
					"amount":   {Type: genai.TypeNumber},
				},
			},
		},
		"suggestions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"transactions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":        {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"amount":      {Type: genai.TypeNumber},
					"category":    {Type: genai.TypeString},
					"type":        {Type: genai.TypeString, Enum: []string{string(models.TransactionTypeExpense), string(models.TransactionTypeIncome)}},
				},
				Required: []string{"date", "description", "amount", "category", "type"},
			},
		},
	},
	Required: []string{"summary", "totalExpenses", "totalIncome", "topCategories", "suggestions", "transactions"},
}

// Gemini implements Gateway on top of the Gemini API.
type Gemini struct {
	client *genai.Client
	models Models
	logger logging.Logger
}

// NewGemini creates the Gemini client. The API key is required.
func NewGemini(ctx context.Context, apiKey string, m Models, logger logging.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("init AI client: %w", err)
	}

	return &Gemini{client: client, models: m, logger: logger.With("component", "gateway")}, nil
}

func (g *Gemini) Analyze(ctx context.Context, payload []Part) (*models.FinancialAnalysis, error) {
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: toGenaiParts(payload, analysisPrompt)}}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(analysisThinkingBudget)},
	}

	g.logger.Info(ctx, "sending analysis request", "model", g.models.Analysis, "parts", len(payload))
	resp, err := g.client.Models.GenerateContent(ctx, g.models.Analysis, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: generate analysis: %w", ErrGateway, err)
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response from AI", ErrGateway)
	}
	g.logger.Debug(ctx, "received analysis response", "length", len(raw))

	return decodeAnalysis(raw)
}

func (g *Gemini) GenerateBrandAsset(ctx context.Context, prompt string) (*Image, error) {
	contents := genai.Text(fmt.Sprintf(brandPromptTemplate, prompt))
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage), string(genai.ModalityText)},
	}

	g.logger.Info(ctx, "generating brand asset", "model", g.models.Image)
	resp, err := g.client.Models.GenerateContent(ctx, g.models.Image, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: generate image: %w", ErrGateway, err)
	}

	blob := firstInlineData(resp, "image/")
	if blob == nil {
		return nil, ErrNoImage
	}
	return &Image{Data: blob.Data, MIMEType: blob.MIMEType}, nil
}

func (g *Gemini) Chat(ctx context.Context, message string, prior []ChatTurn) (*ChatReply, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: chatInstruction}}},
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	chat, err := g.client.Chats.Create(ctx, g.models.Chat, cfg, toHistory(prior))
	if err != nil {
		return nil, fmt.Errorf("%w: create chat: %w", ErrGateway, err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return nil, fmt.Errorf("%w: send chat message: %w", ErrGateway, err)
	}

	return &ChatReply{Text: responseText(resp), Sources: groundingSources(resp)}, nil
}

func (g *Gemini) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	contents := genai.Text(speechPrefix + text)
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.models.Voice},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.models.Speech, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: synthesize speech: %w", ErrGateway, err)
	}

	blob := firstInlineData(resp, "audio/")
	if blob == nil || len(blob.Data) == 0 {
		return nil, ErrNoAudio
	}
	g.logger.Debug(ctx, "received speech", "bytes", len(blob.Data))

	return pcmToWAV(blob.Data, speechSampleRate, speechChannels, speechBitsPerSample), nil
}

// toGenaiParts keeps the payload order and appends the instruction text last.
func toGenaiParts(payload []Part, instruction string) []*genai.Part {
	parts := make([]*genai.Part, 0, len(payload)+1)
	for _, p := range payload {
		if p.IsBlob() {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	return append(parts, genai.NewPartFromText(instruction))
}

// toHistory converts prior turns, dropping empty ones and unknown roles.
func toHistory(prior []ChatTurn) []*genai.Content {
	history := make([]*genai.Content, 0, len(prior))
	for _, turn := range prior {
		if strings.TrimSpace(turn.Text) == "" {
			continue
		}
		role := genai.RoleUser
		switch turn.Role {
		case RoleUser:
		case RoleModel:
			role = genai.RoleModel
		default:
			continue
		}
		history = append(history, &genai.Content{Role: role, Parts: []*genai.Part{{Text: turn.Text}}})
	}
	return history
}

// responseText concatenates the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// firstInlineData returns the first inline blob whose MIME type starts with
// prefix. An empty MIME type is accepted.
func firstInlineData(resp *genai.GenerateContentResponse, prefix string) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		if part.InlineData.MIMEType == "" || strings.HasPrefix(part.InlineData.MIMEType, prefix) {
			return part.InlineData
		}
	}
	return nil
}

func groundingSources(resp *genai.GenerateContentResponse) []Source {
	sources := []Source{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return sources
	}
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
	}
	return sources
}
