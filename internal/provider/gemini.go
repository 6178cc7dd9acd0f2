package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"fjacquet/stmt-extract/internal/config"
	"fjacquet/stmt-extract/internal/extracterror"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
	"fjacquet/stmt-extract/internal/prompt"
)

// geminiProvider adapts the managed Gemini generative-model service. The
// client is created lazily on the first call, so constructing the provider
// without credentials is allowed; using it is not.
type geminiProvider struct {
	core
	cfg    config.ProviderConfig
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGeminiProvider(pc config.ProviderConfig, deps Deps) *geminiProvider {
	return &geminiProvider{
		core: core{deps: deps},
		cfg:  pc,
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

// ensureClient initializes the Gemini client on first use.
func (p *geminiProvider) ensureClient(ctx context.Context) error {
	if p.client != nil {
		return nil
	}
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return &extracterror.ProviderError{
			Provider: p.Name(),
			Kind:     extracterror.KindInvalidCredentials,
			Err:      errors.New("GEMINI_API_KEY is not set"),
		}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.cfg.APIKey))
	if err != nil {
		return p.classify(err)
	}
	p.client = client
	p.model = client.GenerativeModel(p.cfg.Model)
	return nil
}

// generate sends one prompt and returns the concatenated text parts.
// Gemini's SDK does not report token usage here, so usage is estimated.
func (p *geminiProvider) generate(ctx context.Context, rendered string) (string, models.ExtractionUsage, error) {
	if err := p.ensureClient(ctx); err != nil {
		return "", models.ExtractionUsage{}, err
	}

	resp, err := p.model.GenerateContent(ctx, genai.Text(rendered))
	if err != nil {
		return "", models.ExtractionUsage{}, p.classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", models.ExtractionUsage{}, &extracterror.ProviderError{
			Provider: p.Name(),
			Kind:     extracterror.KindUnknown,
			Err:      errors.New("empty response from model"),
		}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(fmt.Sprintf("%v", part))
	}
	raw := b.String()

	usage := models.ExtractionUsage{
		PromptTokens:     estimateTokens(rendered),
		CompletionTokens: estimateTokens(raw),
	}
	return raw, usage, nil
}

// classify maps SDK errors onto the shared taxonomy.
func (p *geminiProvider) classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return extracterror.Classify(p.Name(), gerr.Code, gerr.Message, err)
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "api key") || strings.Contains(msg, "API_KEY") {
		return &extracterror.ProviderError{Provider: p.Name(), Kind: extracterror.KindInvalidCredentials, Err: err}
	}
	if strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit") {
		return &extracterror.ProviderError{Provider: p.Name(), Kind: extracterror.KindQuotaExceeded, Err: err}
	}
	if strings.Contains(lower, "no such host") || strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "dial tcp") || strings.Contains(lower, "timeout") {
		return extracterror.Network(p.Name(), err)
	}
	return &extracterror.ProviderError{Provider: p.Name(), Kind: extracterror.KindUnknown, Err: err}
}

// ExtractTransactions implements Provider.
func (p *geminiProvider) ExtractTransactions(ctx context.Context, req Request) (*models.ExtractionResult, error) {
	rendered, summary, err := p.buildExtractionPrompt(req)
	if err != nil {
		return nil, err
	}

	raw, usage, err := p.generate(ctx, rendered)
	if err != nil {
		return nil, err
	}

	return p.finish(raw, req, usage, summary), nil
}

// ValidateDocument implements Provider.
func (p *geminiProvider) ValidateDocument(ctx context.Context, text string) (*DocumentCheck, error) {
	rendered, err := p.buildValidationPrompt(text)
	if err != nil {
		return nil, err
	}

	raw, _, err := p.generate(ctx, rendered)
	if err != nil {
		return nil, err
	}
	return parseDocumentCheck(raw)
}

// TestConnection implements Provider.
func (p *geminiProvider) TestConnection(ctx context.Context) models.ConnectionStatus {
	rendered, err := p.deps.Registry.Build(prompt.TemplateConnectionTest, nil)
	if err != nil {
		return models.ConnectionStatus{Success: false, Error: err.Error()}
	}

	if _, _, err := p.generate(ctx, rendered); err != nil {
		p.deps.Logger.Warn("Connection test failed",
			logging.Field{Key: logging.FieldProvider, Value: p.Name()},
			logging.Field{Key: logging.FieldError, Value: err})
		return models.ConnectionStatus{Success: false, Error: err.Error()}
	}
	return models.ConnectionStatus{Success: true}
}
