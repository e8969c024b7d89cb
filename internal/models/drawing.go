package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drawlytics/powerball-edge/internal/utils"
)

// Ball domain bounds for a standard Powerball drawing.
const (
	WhiteBallMin = 1
	WhiteBallMax = 69
	PowerBallMin = 1
	PowerBallMax = 26

	// WhiteBallCount is the number of white balls in a single drawing.
	WhiteBallCount = 5
)

// DrawSource tags where a stored drawing came from.
type DrawSource string

const (
	// DrawSourceLive marks drawings ingested from the upstream feed.
	DrawSourceLive DrawSource = "live"
	// DrawSourceSynthetic marks drawings produced by the deterministic
	// sample generator used when the feed is unavailable.
	DrawSourceSynthetic DrawSource = "synthetic"
)

// Drawing represents one historical Powerball result
type Drawing struct {
	ID            int64            `json:"id" db:"id"`
	DrawDate      time.Time        `json:"draw_date" db:"draw_date"`
	WhiteBalls    [5]int           `json:"white_balls"`
	PowerBall     int              `json:"powerball" db:"powerball"`
	Multiplier    *int             `json:"multiplier,omitempty" db:"multiplier"`
	JackpotAmount *decimal.Decimal `json:"jackpot_amount,omitempty" db:"jackpot_amount"`
	Source        DrawSource       `json:"source" db:"source"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// Validate checks the drawing against the Powerball domain rules:
// five pairwise-distinct white balls in [1,69] and a power ball in [1,26].
func (d *Drawing) Validate() error {
	seen := make(map[int]bool, WhiteBallCount)
	for _, ball := range d.WhiteBalls {
		if ball < WhiteBallMin || ball > WhiteBallMax {
			return utils.NewFieldError("white_balls", "ball %d out of range [%d,%d]", ball, WhiteBallMin, WhiteBallMax)
		}
		if seen[ball] {
			return utils.NewFieldError("white_balls", "duplicate ball %d", ball)
		}
		seen[ball] = true
	}
	if d.PowerBall < PowerBallMin || d.PowerBall > PowerBallMax {
		return utils.NewFieldError("powerball", "ball %d out of range [%d,%d]", d.PowerBall, PowerBallMin, PowerBallMax)
	}
	return nil
}

// SortedWhiteBalls returns the white balls in ascending order without
// mutating the drawing.
func (d *Drawing) SortedWhiteBalls() [5]int {
	balls := d.WhiteBalls
	sort.Ints(balls[:])
	return balls
}

// WhiteBallSum returns the sum of the five white balls.
func (d *Drawing) WhiteBallSum() int {
	sum := 0
	for _, ball := range d.WhiteBalls {
		sum += ball
	}
	return sum
}

// DrawSummary describes the stored history as a whole.
type DrawSummary struct {
	TotalDrawings int        `json:"total_drawings"`
	EarliestDate  *time.Time `json:"earliest_date,omitempty"`
	LatestDate    *time.Time `json:"latest_date,omitempty"`
}

// DateRange renders the summary's date range for API responses.
func (s *DrawSummary) DateRange() map[string]string {
	dateRange := map[string]string{"earliest": "", "latest": ""}
	if s.EarliestDate != nil {
		dateRange["earliest"] = s.EarliestDate.Format("2006-01-02")
	}
	if s.LatestDate != nil {
		dateRange["latest"] = s.LatestDate.Format("2006-01-02")
	}
	return dateRange
}

// IngestResult reports the outcome of one ingestion run. Source makes the
// synthetic fallback observable to callers instead of an indistinguishable
// substitute.
type IngestResult struct {
	Source        DrawSource `json:"source"`
	Fetched       int        `json:"fetched"`
	Inserted      int        `json:"inserted"`
	TotalDrawings int        `json:"total_drawings"`
}
