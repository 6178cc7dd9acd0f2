package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/stmt-extract/internal/config"
	"fjacquet/stmt-extract/internal/extracterror"
	"fjacquet/stmt-extract/internal/logging"
)

func chatCompletionBody(content string) string {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 120, "completion_tokens": 45},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestChatClient_Complete(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, chatCompletionBody("  {\"transactions\": []}  "))
	}))
	defer server.Close()

	client := newChatClient("openai", server.URL+"/", "sk-test", "gpt-4o-mini", 5, logging.Nop{})

	content, usage, err := client.complete(context.Background(), "extract please")

	require.NoError(t, err)
	assert.Equal(t, `{"transactions": []}`, content, "content must be trimmed")
	assert.Equal(t, 120, usage.PromptTokens)
	assert.Equal(t, 45, usage.CompletionTokens)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "extract please", gotReq.Messages[0].Content)
}

func TestChatClient_ErrorStatusClassified(t *testing.T) {
	tests := []struct {
		status int
		body   string
		kind   extracterror.Kind
	}{
		{401, `{"error": "Invalid API key"}`, extracterror.KindInvalidCredentials},
		{403, `{"error": "forbidden"}`, extracterror.KindPermissionDenied},
		{404, `{"error": "model not found"}`, extracterror.KindModelNotFound},
		{429, `{"error": "rate limit reached, try again in 3s"}`, extracterror.KindQuotaExceeded},
		{400, `{"error": "bad request"}`, extracterror.KindMalformedRequest},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			client := newChatClient("deepseek", server.URL, "key", "deepseek-chat", 5, logging.Nop{})

			_, _, err := client.complete(context.Background(), "hi")

			require.Error(t, err)
			assert.Equal(t, tc.kind, extracterror.KindOf(err))
			var pe *extracterror.ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "deepseek", pe.Provider)
			assert.Equal(t, tc.status, pe.StatusCode)
		})
	}
}

func TestChatClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newChatClient("openai", server.URL, "key", "gpt-4o-mini", 1, logging.Nop{})

	_, _, err := client.complete(context.Background(), "hi")

	require.Error(t, err)
	assert.Equal(t, extracterror.KindNetworkUnreachable, extracterror.KindOf(err))
}

func TestChatClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer server.Close()

	client := newChatClient("openai", server.URL, "key", "gpt-4o-mini", 5, logging.Nop{})

	_, _, err := client.complete(context.Background(), "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestChatClient_MalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>gateway error</html>")
	}))
	defer server.Close()

	client := newChatClient("groq", server.URL, "key", "llama-3.3-70b-versatile", 5, logging.Nop{})

	_, _, err := client.complete(context.Background(), "hi")

	require.Error(t, err)
	assert.True(t, extracterror.IsProviderError(err))
}

func TestRESTProvider_ExtractTransactions(t *testing.T) {
	payload := `{
		"transactions": [
			{"date": "2025-01-05", "description": "UPI-SWIGGY-ORDER", "amount": -450.00, "suggested_category": "food"}
		],
		"balance_data": {"closing_balance": 94550, "balance_confidence": 92}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatCompletionBody("```json\n"+payload+"\n```"))
	}))
	defer server.Close()

	pc := config.ProviderConfig{Model: "gpt-4o-mini", BaseURL: server.URL, APIKey: "sk-test"}
	p := newRESTProvider("openai", pc, 5, newTestDeps())

	result, err := p.ExtractTransactions(context.Background(), Request{
		PageText: "Account No: 123456789012\n05-Jan-2025 UPI-SWIGGY-ORDER -450.00",
	})

	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "UPI-SWIGGY-ORDER", result.Transactions[0].Description)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("-450")))
	assert.Equal(t, "food", result.Transactions[0].Category)
	assert.Equal(t, 120, result.Usage.PromptTokens)
	assert.Equal(t, 1, result.SecurityBreakdown["accountNumber"])
	require.NotNil(t, result.BalanceData)
	assert.Equal(t, 92, result.BalanceData.Confidence)
}

func TestRESTProvider_ValidateDocument(t *testing.T) {
	var outbound string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		outbound = string(body)
		fmt.Fprint(w, chatCompletionBody(`{"is_bank_statement": true, "confidence": 88, "document_type": "bank_statement"}`))
	}))
	defer server.Close()

	pc := config.ProviderConfig{Model: "deepseek-chat", BaseURL: server.URL, APIKey: "key"}
	p := newRESTProvider("deepseek", pc, 5, newTestDeps())

	check, err := p.ValidateDocument(context.Background(), "statement text here")

	require.NoError(t, err)
	assert.True(t, check.IsBankStatement)
	assert.Equal(t, 88, check.Confidence)
	assert.Contains(t, outbound, "statement text here")
}

func TestRESTProvider_ValidateDocumentSanitizesInput(t *testing.T) {
	var outbound string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		outbound = string(body)
		fmt.Fprint(w, chatCompletionBody(`{"is_bank_statement": true, "confidence": 90, "document_type": "bank_statement"}`))
	}))
	defer server.Close()

	pc := config.ProviderConfig{Model: "deepseek-chat", BaseURL: server.URL, APIKey: "key"}
	p := newRESTProvider("deepseek", pc, 5, newTestDeps())

	_, err := p.ValidateDocument(context.Background(),
		"Account No: 123456789012\nContact: user@example.com")

	require.NoError(t, err)
	assert.NotContains(t, outbound, "123456789012")
	assert.NotContains(t, outbound, "user@example.com")
	assert.Contains(t, outbound, "Account No:")
}

func TestRESTProvider_TestConnection(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, chatCompletionBody("OK"))
		}))
		defer server.Close()

		pc := config.ProviderConfig{Model: "gpt-4o-mini", BaseURL: server.URL, APIKey: "key"}
		p := newRESTProvider("openai", pc, 5, newTestDeps())

		status := p.TestConnection(context.Background())

		assert.True(t, status.Success)
		assert.Empty(t, status.Error)
	})

	t.Run("failure is data not error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error": "Invalid API key"}`)
		}))
		defer server.Close()

		pc := config.ProviderConfig{Model: "gpt-4o-mini", BaseURL: server.URL, APIKey: "bad"}
		p := newRESTProvider("openai", pc, 5, newTestDeps())

		status := p.TestConnection(context.Background())

		assert.False(t, status.Success)
		assert.Contains(t, status.Error, "invalid_credentials")
	})
}
