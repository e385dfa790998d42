package bodyparts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/2beens/workoutdash/internal/bodyparts"
	"github.com/2beens/workoutdash/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionHandler(calls *int32, status int, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestLLMClassifier_Classify(t *testing.T) {
	var calls int32
	server := httptest.NewServer(completionHandler(&calls, http.StatusOK, "```json\n{\"Bench Press\": \"Chest\", \"Squat\": \"legs\"}\n```"))
	defer server.Close()

	client := llm.NewClient(server.URL, "test-key", server.Client())
	classifier := bodyparts.NewLLMClassifier(client, "gpt-4", bodyparts.DefaultRules)

	ctx := context.Background()
	names := []string{"Bench Press", "Squat"}
	labels, err := classifier.Classify(ctx, names)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Bench Press": "Chest", "Squat": "legs"}, labels)

	// same prompt is answered from cache
	labels, err = classifier.Classify(ctx, names)
	require.NoError(t, err)
	assert.Len(t, labels, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLLMClassifier_Unavailable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(completionHandler(&calls, http.StatusServiceUnavailable, ""))
	defer server.Close()

	client := llm.NewClient(server.URL, "test-key", server.Client())
	classifier := bodyparts.NewLLMClassifier(client, "gpt-4", nil)

	labels, err := classifier.Classify(context.Background(), []string{"Bench Press"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bodyparts.ErrClassificationUnavailable))
	assert.Nil(t, labels)
}

func TestLLMClassifier_MalformedAnswerIsNotCached(t *testing.T) {
	var calls int32
	server := httptest.NewServer(completionHandler(&calls, http.StatusOK, "Bench Press is a chest exercise"))
	defer server.Close()

	client := llm.NewClient(server.URL, "test-key", server.Client())
	classifier := bodyparts.NewLLMClassifier(client, "gpt-4", nil)

	for i := 0; i < 2; i++ {
		_, err := classifier.Classify(context.Background(), []string{"Bench Press"})
		assert.True(t, errors.Is(err, bodyparts.ErrClassificationUnavailable))
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBuildPrompt(t *testing.T) {
	prompt := bodyparts.BuildPrompt([]string{"Bench Press", "Squat"}, bodyparts.DefaultRules)
	assert.Contains(t, prompt, "Return a JSON mapping each of the following exercise names to their primary body part.")
	assert.Contains(t, prompt, "Exercises:\n- Bench Press\n- Squat\n")
	assert.Contains(t, prompt, `{ "Exercise Name": "Body Part", ... }`)
	assert.Contains(t, prompt, "deadlift")
}

func TestParseLabels(t *testing.T) {
	labels, err := bodyparts.ParseLabels(`{"Plank": "Core"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Plank": "Core"}, labels)

	labels, err = bodyparts.ParseLabels("```\n{\"Plank\": \"Core\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Plank": "Core"}, labels)

	_, err = bodyparts.ParseLabels(`["Plank"]`)
	assert.Error(t, err)
}
