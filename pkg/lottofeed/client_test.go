package lottofeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedRow(date, numbers, powerBall string) []interface{} {
	row := make([]interface{}, rowMinFields)
	for i := 0; i < fieldDate; i++ {
		row[i] = nil
	}
	row[fieldDate] = date
	row[fieldNumbers] = numbers
	row[fieldPowerBall] = powerBall
	return row
}

func newFeedServer(t *testing.T, rows []interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DatasetPath, r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		writeJSON(t, w, map[string]interface{}{"data": rows})
	}))
}

func writeJSON(t *testing.T, w http.ResponseWriter, body interface{}) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_FetchRecentDrawings(t *testing.T) {
	server := newFeedServer(t, []interface{}{
		feedRow("2025-06-02T00:00:00", "4 11 23 44 61", "9"),
		feedRow("2025-06-04T00:00:00", "7 14 28 35 56", "22"),
	})
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.FetchRecentDrawings(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, result.Drawings, 2)
	assert.Equal(t, 0, result.Skipped)

	first := result.Drawings[0]
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), first.DrawDate)
	assert.Equal(t, [5]int{4, 11, 23, 44, 61}, first.WhiteBalls)
	assert.Equal(t, 9, first.PowerBall)

	second := result.Drawings[1]
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), second.DrawDate)
	assert.Equal(t, 22, second.PowerBall)
}

func TestClient_FetchRecentDrawings_Limit(t *testing.T) {
	server := newFeedServer(t, []interface{}{
		feedRow("2025-05-31T00:00:00", "1 2 3 4 5", "6"),
		feedRow("2025-06-02T00:00:00", "4 11 23 44 61", "9"),
		feedRow("2025-06-04T00:00:00", "7 14 28 35 56", "22"),
	})
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.FetchRecentDrawings(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, result.Drawings, 2)

	// The limit keeps the most recent rows at the tail of the dataset.
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), result.Drawings[0].DrawDate)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), result.Drawings[1].DrawDate)
}

func TestClient_FetchRecentDrawings_SkipsMalformedRows(t *testing.T) {
	short := []interface{}{nil, nil, nil}
	server := newFeedServer(t, []interface{}{
		short,
		feedRow("2025-06-02T00:00:00", "4 11", "9"),
		feedRow("not-a-date", "4 11 23 44 61", "9"),
		feedRow("2025-06-04T00:00:00", "7 14 28 35 56", "22"),
	})
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.FetchRecentDrawings(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, result.Drawings, 1)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), result.Drawings[0].DrawDate)
}

func TestClient_FetchDrawingsSince(t *testing.T) {
	server := newFeedServer(t, []interface{}{
		feedRow("2025-05-31T00:00:00", "1 2 3 4 5", "6"),
		feedRow("2025-06-02T00:00:00", "4 11 23 44 61", "9"),
		feedRow("2025-06-04T00:00:00", "7 14 28 35 56", "22"),
	})
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	since := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	result, err := client.FetchDrawingsSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, result.Drawings, 1)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), result.Drawings[0].DrawDate)
}

func TestClient_FetchRecentDrawings_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.FetchRecentDrawings(context.Background(), 0)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_FetchRecentDrawings_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FetchRecentDrawings(context.Background(), 0)
	assert.Error(t, err)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient("https://data.ny.gov/", 0)
	assert.Equal(t, "https://data.ny.gov", client.BaseURL)
	assert.Equal(t, 30*time.Second, client.HTTPClient.Timeout)
}
