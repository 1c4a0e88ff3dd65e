package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

func toolCallBody(t *testing.T, name string, arguments any) []byte {
	t.Helper()
	args, err := json.Marshal(arguments)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{
				"message": map[string]any{
					"tool_calls": []map[string]any{
						{"function": map[string]any{"name": name, "arguments": string(args)}},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func TestAnalyzeNote_Success(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write(toolCallBody(t, "analyze_note", models.AnalysisResult{
			Tags:     []string{"work", "urgent"},
			Tasks:    []models.AnalysisTask{{Title: "Call Bob", Priority: "high"}},
			HasTasks: true,
		}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "google/gemini-2.5-flash")
	result, err := client.AnalyzeNote(context.Background(), "Call Bob about the contract")
	require.NoError(t, err)

	assert.Equal(t, []string{"work", "urgent"}, result.Tags)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, "Call Bob", result.Tasks[0].Title)
	assert.Equal(t, models.PriorityHigh, result.Tasks[0].Priority)
	assert.Empty(t, result.Tasks[0].Description)
	assert.True(t, result.HasTasks)

	// The gateway must be forced onto the structured channel.
	require.NotNil(t, gotReq.ToolChoice)
	assert.Equal(t, "analyze_note", gotReq.ToolChoice.Function.Name)
	require.Len(t, gotReq.Tools, 1)
	assert.Equal(t, "analyze_note", gotReq.Tools[0].Function.Name)
	assert.Equal(t, "google/gemini-2.5-flash", gotReq.Model)
}

func TestAnalyzeNote_ClampsTagsAndPriority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(toolCallBody(t, "analyze_note", models.AnalysisResult{
			Tags:  []string{"a", "b", "c", "d", "e", "f", "g"},
			Tasks: []models.AnalysisTask{{Title: "x", Priority: "urgent"}},
		}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "m")
	result, err := client.AnalyzeNote(context.Background(), "note")
	require.NoError(t, err)

	assert.Len(t, result.Tags, models.MaxNoteTags)
	assert.Equal(t, models.PriorityMedium, result.Tasks[0].Priority)
}

func TestAnalyzeNote_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, ErrRateLimited},
		{"quota exceeded", http.StatusPaymentRequired, `{"error":"pay up"}`, ErrQuotaExceeded},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, ErrTransport},
		{"no tool call", http.StatusOK, `{"choices":[{"message":{"content":"plain text"}}]}`, ErrMalformedResponse},
		{"not json", http.StatusOK, `<html>`, ErrMalformedResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "test-key", "m")
			_, err := client.AnalyzeNote(context.Background(), "note")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAnalyzeNote_UnreachableGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, "test-key", "m")
	_, err := client.AnalyzeNote(context.Background(), "note")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestAnalyzeNote_BadArguments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"tool_calls":[{"function":{"name":"analyze_note","arguments":"not json"}}]}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "m")
	_, err := client.AnalyzeNote(context.Background(), "note")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAnalyzeBrain_Success(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write(toolCallBody(t, "analyze_brain", models.BrainAnalysis{
			Themes:      []models.BrainTheme{{Name: "planning", NoteIndices: []int{0, 1}, Description: "both plan"}},
			Connections: []models.BrainConnection{{NoteIndices: []int{0, 1}, Relationship: "same project"}},
			Insights:    []models.BrainInsight{{Title: "Focus", Description: "pick one", Priority: "high"}},
			Summary:     "two related notes",
		}))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "m")
	analysis, err := client.AnalyzeBrain(context.Background(), []*models.Note{
		{Content: "plan the launch", Tags: []string{"work"}},
		{Content: "launch checklist", Tags: []string{"work", "todo"}},
	})
	require.NoError(t, err)

	require.Len(t, analysis.Themes, 1)
	assert.Equal(t, "planning", analysis.Themes[0].Name)
	assert.Equal(t, "two related notes", analysis.Summary)

	require.NotNil(t, gotReq.ToolChoice)
	assert.Equal(t, "analyze_brain", gotReq.ToolChoice.Function.Name)

	// All notes are concatenated into one prompt, with their tags.
	require.Len(t, gotReq.Messages, 2)
	userMsg := gotReq.Messages[1].Content
	assert.Contains(t, userMsg, "Note 1: plan the launch")
	assert.Contains(t, userMsg, "Note 2: launch checklist")
	assert.Contains(t, userMsg, "Tags: work, todo")
}

func TestAnalyzeBrain_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "m")
	_, err := client.AnalyzeBrain(context.Background(), []*models.Note{{Content: "x"}})
	assert.ErrorIs(t, err, ErrRateLimited)
}
