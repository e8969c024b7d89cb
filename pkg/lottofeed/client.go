// Package lottofeed provides a client for the New York State Gaming
// Commission open-data feed of Powerball drawing results.
package lottofeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DatasetPath identifies the Powerball results dataset on data.ny.gov.
const DatasetPath = "/api/views/d6yy-54nr/rows.json"

// rowMinFields is the minimum row width for the dataset: eight Socrata
// metadata fields followed by the date, winning numbers and multiplier.
const rowMinFields = 11

// Field offsets within a Socrata data row.
const (
	fieldDate      = 8
	fieldNumbers   = 9
	fieldPowerBall = 10
)

// Drawing is one parsed feed row.
type Drawing struct {
	DrawDate   time.Time
	WhiteBalls [5]int
	PowerBall  int
}

// FetchResult carries the parsed drawings plus how many rows were skipped
// as malformed.
type FetchResult struct {
	Drawings []Drawing
	Skipped  int
}

// Client represents the lottery feed HTTP client
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewClient creates a new feed client instance
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// rowsEnvelope mirrors the Socrata rows.json response shape. Each data row
// is a positional array mixing metadata and dataset columns.
type rowsEnvelope struct {
	Data [][]interface{} `json:"data"`
}

// FetchRecentDrawings retrieves up to limit drawings from the feed, most
// recent rows last. Malformed rows are skipped and counted rather than
// failing the whole fetch. A limit of 0 fetches the complete dataset.
func (c *Client) FetchRecentDrawings(ctx context.Context, limit int) (*FetchResult, error) {
	envelope, err := c.fetchRows(ctx)
	if err != nil {
		return nil, err
	}

	rows := envelope.Data
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}

	result := &FetchResult{}
	for _, row := range rows {
		drawing, err := parseRow(row)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Drawings = append(result.Drawings, drawing)
	}
	return result, nil
}

// FetchDrawingsSince retrieves only drawings strictly newer than the given
// date, for incremental synchronization.
func (c *Client) FetchDrawingsSince(ctx context.Context, since time.Time) (*FetchResult, error) {
	full, err := c.FetchRecentDrawings(ctx, 0)
	if err != nil {
		return nil, err
	}

	result := &FetchResult{Skipped: full.Skipped}
	for _, drawing := range full.Drawings {
		if drawing.DrawDate.After(since) {
			result.Drawings = append(result.Drawings, drawing)
		}
	}
	return result, nil
}

func (c *Client) fetchRows(ctx context.Context) (*rowsEnvelope, error) {
	url := c.BaseURL + DatasetPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Powerball-Edge/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("feed error (%d): %s", resp.StatusCode, string(respBody))
	}

	var envelope rowsEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &envelope, nil
}

// parseRow converts one positional Socrata row into a Drawing. Dates arrive
// as "2020-09-26T00:00:00" and the winning numbers as a space separated
// string of five white balls; the power ball is its own column.
func parseRow(row []interface{}) (Drawing, error) {
	if len(row) < rowMinFields {
		return Drawing{}, fmt.Errorf("row has %d fields, want at least %d", len(row), rowMinFields)
	}

	dateStr, ok := row[fieldDate].(string)
	if !ok {
		return Drawing{}, fmt.Errorf("date field is not a string")
	}
	if idx := strings.IndexByte(dateStr, 'T'); idx >= 0 {
		dateStr = dateStr[:idx]
	}
	drawDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return Drawing{}, fmt.Errorf("failed to parse draw date %q: %w", dateStr, err)
	}

	numbersStr, ok := row[fieldNumbers].(string)
	if !ok || numbersStr == "" {
		return Drawing{}, fmt.Errorf("winning numbers field is empty")
	}
	powerBallStr, ok := row[fieldPowerBall].(string)
	if !ok || powerBallStr == "" {
		return Drawing{}, fmt.Errorf("power ball field is empty")
	}

	fields := strings.Fields(numbersStr)
	if len(fields) < 5 {
		return Drawing{}, fmt.Errorf("winning numbers %q has fewer than 5 balls", numbersStr)
	}

	var drawing Drawing
	drawing.DrawDate = drawDate
	for i := 0; i < 5; i++ {
		ball, err := strconv.Atoi(fields[i])
		if err != nil {
			return Drawing{}, fmt.Errorf("failed to parse white ball %q: %w", fields[i], err)
		}
		drawing.WhiteBalls[i] = ball
	}

	powerBall, err := strconv.Atoi(strings.TrimSpace(powerBallStr))
	if err != nil {
		return Drawing{}, fmt.Errorf("failed to parse power ball %q: %w", powerBallStr, err)
	}
	drawing.PowerBall = powerBall

	return drawing, nil
}

// Close closes the HTTP client (if needed for cleanup)
func (c *Client) Close() error {
	// HTTP client doesn't need explicit closing, but this method
	// is provided for interface compatibility
	return nil
}
