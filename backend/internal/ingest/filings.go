// Package ingest parses regulator filings pages into regulatory event
// DTOs. The expected document contains a <table class="filings"> with
// one row per filing: date, activity type, description, and the
// comma-separated symbols of the affected assets.
package ingest

import (
	"io"
	"strings"
	"time"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/pkg/errors"
	"assetgraph/backend/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dateFormats tried in order when parsing the filing date column
var dateFormats = []string{"2006-01-02", "01/02/2006", "Jan 2, 2006"}

// Result reports what a parse produced
type Result struct {
	Events  []graph.RegulatoryEvent
	Skipped int
}

// ParseFilings reads a filings HTML document and extracts regulatory
// events. Rows missing a date or any asset symbol are skipped and
// counted; a document with no filings table at all is a validation
// error.
func ParseFilings(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewIngestParseFailed("filings", err)
	}

	table := doc.Find("table.filings")
	if table.Length() == 0 {
		return nil, errors.NewValidation("document", "no filings table found")
	}

	log := logger.Named("ingest")
	result := &Result{}
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			// Header row or malformed row
			if row.Find("th").Length() == 0 && cells.Length() > 0 {
				result.Skipped++
			}
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		activity := strings.TrimSpace(cells.Eq(1).Text())
		description := strings.TrimSpace(cells.Eq(2).Text())
		symbolsText := strings.TrimSpace(cells.Eq(3).Text())

		date, ok := parseDate(dateText)
		if !ok {
			log.Debug("Skipping filing row with bad date", zap.Int("row", i), zap.String("date", dateText))
			result.Skipped++
			return
		}

		var assetIDs []string
		for _, sym := range strings.Split(symbolsText, ",") {
			sym = strings.TrimSpace(sym)
			if sym != "" {
				assetIDs = append(assetIDs, sym)
			}
		}
		if len(assetIDs) == 0 {
			result.Skipped++
			return
		}

		result.Events = append(result.Events, graph.RegulatoryEvent{
			ID:           uuid.New().String(),
			AssetIDs:     assetIDs,
			Date:         date,
			Description:  description,
			ActivityType: activity,
		})
	})

	log.Info("Filings parsed",
		zap.Int("events", len(result.Events)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
