package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"tags\":[\"keto\"]}"}}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, "")
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), "be terse", "tag this")
	require.NoError(t, err)
	assert.Equal(t, `{"tags":["keto"]}`, reply)

	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be terse", got.Messages[0].Content)
	assert.Equal(t, "tag this", got.Messages[1].Content)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
}

func TestClient_Errors(t *testing.T) {
	status := http.StatusTooManyRequests
	body := `{"error":"rate limited"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client, err := NewClient("k", server.URL, "deepseek-reasoner")
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")

	status, body = http.StatusOK, `{"choices":[]}`
	_, err = client.Complete(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrNoChoices)

	_, err = NewClient("", "", "")
	assert.Error(t, err)
}
