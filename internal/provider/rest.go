package provider

import (
	"context"

	"fjacquet/stmt-extract/internal/config"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
	"fjacquet/stmt-extract/internal/prompt"
)

// restProvider is a chat-completion adapter over an OpenAI-compatible
// endpoint. The openai, deepseek and groq variants are all instances of
// this type pointed at their respective base URLs and credentials.
type restProvider struct {
	core
	client *chatClient
}

func newRESTProvider(name string, pc config.ProviderConfig, timeoutSeconds int, deps Deps) *restProvider {
	return &restProvider{
		core:   core{deps: deps},
		client: newChatClient(name, pc.BaseURL, pc.APIKey, pc.Model, timeoutSeconds, deps.Logger),
	}
}

func (p *restProvider) Name() string { return p.client.name }

// ExtractTransactions implements Provider.
func (p *restProvider) ExtractTransactions(ctx context.Context, req Request) (*models.ExtractionResult, error) {
	rendered, summary, err := p.buildExtractionPrompt(req)
	if err != nil {
		return nil, err
	}

	raw, usage, err := p.client.complete(ctx, rendered)
	if err != nil {
		return nil, err
	}

	return p.finish(raw, req, usage, summary), nil
}

// ValidateDocument implements Provider.
func (p *restProvider) ValidateDocument(ctx context.Context, text string) (*DocumentCheck, error) {
	rendered, err := p.buildValidationPrompt(text)
	if err != nil {
		return nil, err
	}

	raw, _, err := p.client.complete(ctx, rendered)
	if err != nil {
		return nil, err
	}
	return parseDocumentCheck(raw)
}

// TestConnection implements Provider.
func (p *restProvider) TestConnection(ctx context.Context) models.ConnectionStatus {
	rendered, err := p.deps.Registry.Build(prompt.TemplateConnectionTest, nil)
	if err != nil {
		return models.ConnectionStatus{Success: false, Error: err.Error()}
	}

	if _, _, err := p.client.complete(ctx, rendered); err != nil {
		p.deps.Logger.Warn("Connection test failed",
			logging.Field{Key: logging.FieldProvider, Value: p.Name()},
			logging.Field{Key: logging.FieldError, Value: err})
		return models.ConnectionStatus{Success: false, Error: err.Error()}
	}
	return models.ConnectionStatus{Success: true}
}
