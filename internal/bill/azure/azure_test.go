package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/bill"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})

	return string(body)
}

func TestClient_Extract(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bill.Fields
		wantErr error
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   completion(`{"title":"Power bill","amount":"1,250.00","description":"March","category":"Bills & Utilities"}`),
			want:   bill.Fields{Title: "Power bill", Amount: "1250.00", Description: "March", Category: "Bills & Utilities"},
		},
		{
			name:   "prose around object",
			status: http.StatusOK,
			body:   completion("Sure! {\"title\":\"Museum\",\"amount\":\"300\",\"category\":\"Entertainment\"} Hope that helps."),
			want:   bill.Fields{Title: "Museum", Amount: "300", Category: "Entertainment"},
		},
		{
			name:    "throttled",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"code":"429"}}`,
			wantErr: bill.ErrProvider,
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"choices":[]}`,
			wantErr: bill.ErrEmptyResponse,
		},
		{
			name:    "not JSON",
			status:  http.StatusOK,
			body:    `<html>gateway</html>`,
			wantErr: bill.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/openai/deployments/gpt-4o/chat/completions", r.URL.Path)
				assert.Equal(t, DefaultAPIVersion, r.URL.Query().Get("api-version"))
				assert.Equal(t, "secret", r.Header.Get("api-key"))

				var req chatRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

				if assert.Len(t, req.Messages, 1) && assert.Len(t, req.Messages[0].Content, 2) {
					assert.Equal(t, "text", req.Messages[0].Content[0].Type)
					assert.True(t, strings.HasPrefix(req.Messages[0].Content[1].ImageURL.URL, "data:image/png;base64,"))
				}

				assert.Equal(t, 500, req.MaxTokens)
				assert.InDelta(t, 0.1, req.Temperature, 1e-9)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(Config{Endpoint: server.URL + "/", APIKey: "secret", Deployment: "gpt-4o"})

			got, err := client.Extract(context.Background(), bill.Image{Data: pngHeader})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Extract_NotConfigured(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	configs := []Config{
		{Endpoint: server.URL, APIKey: "secret"},
		{Endpoint: server.URL, APIKey: bill.Placeholder, Deployment: "gpt-4o"},
		{APIKey: "secret", Deployment: "gpt-4o"},
	}

	for _, cfg := range configs {
		_, err := New(cfg).Extract(context.Background(), bill.Image{Data: pngHeader})
		assert.ErrorIs(t, err, bill.ErrNotConfigured)
	}

	assert.Zero(t, calls.Load())
}
