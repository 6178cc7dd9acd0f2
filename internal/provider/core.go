package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/stmt-extract/internal/models"
	"fjacquet/stmt-extract/internal/prompt"
	"fjacquet/stmt-extract/internal/sanitize"
	"fjacquet/stmt-extract/internal/textutils"
)

// core is the backend-independent half of every adapter: sanitization,
// guidance, template rendering and response normalization. Adapters only
// supply the network call.
type core struct {
	deps Deps
}

// buildExtractionPrompt sanitizes the page and renders the extraction
// template. The sanitization summary is returned so the caller can attach
// it to the result; originals never reach the rendered prompt.
func (c *core) buildExtractionPrompt(req Request) (string, map[string]int, error) {
	san := sanitize.Sanitize(req.PageText, c.deps.SanitizeCfg)
	guidance := prompt.BuildGuidance(req.UserCategories)

	pageText := san.SanitizedText
	if req.PreviousBalance != nil {
		pageText = fmt.Sprintf("Closing balance carried over from the previous page: %s\n\n%s",
			req.PreviousBalance.String(), pageText)
	}

	rendered, err := c.deps.Registry.Build(prompt.TemplateTransactionExtraction, map[string]interface{}{
		prompt.VarCategoriesDescription:    guidance.CategoriesDescription,
		prompt.VarCategorizationGuidelines: guidance.CategorizationGuidelines,
		prompt.VarSanitizedPageText:        pageText,
	})
	if err != nil {
		return "", nil, err
	}
	return rendered, san.Summary, nil
}

// buildValidationPrompt sanitizes the document and renders the bank
// validation template. Validation is a pre-flight check, but the text still
// leaves the process, so it gets the same masking as extraction.
func (c *core) buildValidationPrompt(text string) (string, error) {
	san := sanitize.Sanitize(text, c.deps.SanitizeCfg)
	return c.deps.Registry.Build(prompt.TemplateBankValidation, map[string]interface{}{
		prompt.VarDocumentText: san.SanitizedText,
	})
}

// finish normalizes raw model output into the page result.
func (c *core) finish(raw string, req Request, usage models.ExtractionUsage, summary map[string]int) *models.ExtractionResult {
	result := c.deps.Normalizer.Normalize(raw, req.PreviousBalance, req.UserCategories, usage)
	result.SecurityBreakdown = summary
	return result
}

// parseDocumentCheck decodes a bank-validation response.
func parseDocumentCheck(raw string) (*DocumentCheck, error) {
	span, found := textutils.ExtractJSONObject(raw)
	if !found {
		span = strings.TrimSpace(raw)
	}
	var check DocumentCheck
	if err := json.Unmarshal([]byte(span), &check); err != nil {
		return nil, fmt.Errorf("unexpected validation response: %w", err)
	}
	return &check, nil
}

// estimateTokens approximates token usage for backends that do not report
// it. Four characters per token is the usual rule of thumb for English text.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}
