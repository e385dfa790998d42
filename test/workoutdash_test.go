//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/2beens/workoutdash/internal/dashboard"
	"github.com/2beens/workoutdash/internal/insights"
	"github.com/2beens/workoutdash/internal/middleware"
	"github.com/2beens/workoutdash/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongExport = "Date,Workout Name,Exercise Name,Weight,Reps,Set Order,RPE\n" +
	"2024-01-01 08:00:00,Push,Bench Press,100,5,1,8\n" +
	"2024-01-01 08:00:00,Push,Bench Press,100,5,2,\n" +
	"2024-01-03 08:00:00,Legs,Squat,140,5,1,\n" +
	"2024-01-03 08:00:00,Legs,Romanian Deadlift,120,8,1,7\n" +
	"2024-01-08 08:00:00,Push,Bench Press,102.5,5,1,9\n" +
	"2024-01-10 08:00:00,Legs,Squat,145,5,1,9\n" +
	"2024-01-10 08:00:00,Legs,Romanian Deadlift,,8,1,7\n"

func (s *IntegrationTestSuite) upload(ctx context.Context, secret, content string) *http.Response {
	t := s.T()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "strong.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/uploads", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if secret != "" {
		req.Header.Set(middleware.UploadSecretHeader, secret)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (s *IntegrationTestSuite) getJSON(ctx context.Context, path string, expectedStatus int, v any) {
	t := s.T()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+path, nil)
	require.NoError(t, err)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, string(respBytes))
	if v != nil {
		require.NoError(t, json.Unmarshal(respBytes, v))
	}
}

func (s *IntegrationTestSuite) postInsight(ctx context.Context, body string) *http.Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/insights", strings.NewReader(body))
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func (s *IntegrationTestSuite) TestUpload_RequiresSecret() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := s.upload(ctx, "", strongExport)
	defer resp.Body.Close()
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)

	resp2 := s.upload(ctx, "wrong", strongExport)
	defer resp2.Body.Close()
	assert.Equal(s.T(), http.StatusUnauthorized, resp2.StatusCode)
}

func (s *IntegrationTestSuite) TestUploadTrendsAndInsights() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	resp := s.upload(ctx, testUploadSecret, strongExport)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var report pipeline.RunReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, pipeline.StatusOK, report.Status, report.Warnings)
	assert.Equal(t, 7, report.Load.RowsRead)
	assert.Equal(t, 6, report.Load.RowsLoaded)
	assert.Equal(t, 1, report.Load.RowsDropped)
	assert.Equal(t, 3, report.DistinctExercises)
	assert.Empty(t, report.UnclassifiedExercises)

	var status dashboard.StatusResponse
	s.getJSON(ctx, "/status", http.StatusOK, &status)
	assert.Equal(t, "ok", status.State)
	require.NotNil(t, status.Report)
	assert.Equal(t, report.RunID, status.Report.RunID)

	// the summary table was written to postgres and the dashboard reads it back
	var pgRows int
	require.NoError(t, s.DB.QueryRowContext(ctx, "SELECT count(*) FROM workout_summary").Scan(&pgRows))
	assert.Equal(t, report.SummaryRows, pgRows)

	var options dashboard.OptionsResponse
	s.getJSON(ctx, "/trends/options?group_by=body_part", http.StatusOK, &options)
	// the deadlift rule wins over the model answer
	assert.Equal(t, []string{"Chest", "Legs"}, options.Options)

	var trendsResp dashboard.TrendsResponse
	s.getJSON(ctx, "/trends?group_by=exercise_name&filter=Squat&metric=total_volume", http.StatusOK, &trendsResp)
	require.Len(t, trendsResp.Points, 2)
	assert.InDelta(t, 700.0, trendsResp.Points[0].Value, 1e-9)
	assert.InDelta(t, 725.0, trendsResp.Points[1].Value, 1e-9)
	assert.Equal(t, "up", trendsResp.Trend.Direction())

	// a second upload finds every exercise in the redis map and skips the model
	callsBefore := s.llmCalls.Load()
	resp2 := s.upload(ctx, testUploadSecret, strongExport)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusCreated, resp2.StatusCode)
	var report2 pipeline.RunReport
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&report2))
	assert.Equal(t, 3, report2.ExercisesFromCache)
	assert.Equal(t, callsBefore, s.llmCalls.Load())

	insightResp := s.postInsight(ctx, `{"granularity":"weekly","metric":"total_volume","group_by":"exercise_name","filter":"Squat"}`)
	defer insightResp.Body.Close()
	require.Equal(t, http.StatusOK, insightResp.StatusCode)
	var insight insights.Insight
	require.NoError(t, json.NewDecoder(insightResp.Body).Decode(&insight))
	assert.Equal(t, testInsightText, insight.Text)
	assert.Equal(t, "Squat", insight.Filter)

	// insights are rate limited per minute across all callers
	limited := false
	for i := 0; i < testInsightsPerMinute+1; i++ {
		r := s.postInsight(ctx, `{}`)
		_ = r.Body.Close()
		if r.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, fmt.Sprintf("expected 429 within %d calls", testInsightsPerMinute+1))
}
