// Package rostercsv reads player tables from CSV and writes the leaderboard
// download in the Sl,Abv,ELO,Rank layout.
package rostercsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Dosada05/ranked-hc/models"
	"github.com/Dosada05/ranked-hc/rating"
)

var ErrMissingAbbreviationColumn = errors.New("csv has no abbreviation column (expected Abv, abv or abbreviation)")

// Header of the leaderboard download.
var Header = []string{"Sl", "Abv", "ELO", "Rank"}

// Record is one imported player row.
type Record struct {
	Abbreviation string
	Rating       int
}

const (
	columnAbbreviation = "abbreviation"
	columnRating       = "rating"
)

// normalizeColumn приводит заголовок к каноническому имени колонки.
func normalizeColumn(name string) string {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))) {
	case "abv", "abbreviation":
		return columnAbbreviation
	case "elo", "rating":
		return columnRating
	}
	return ""
}

// Parse reads player rows. Rows with a blank abbreviation are skipped; a
// missing or unparseable rating becomes rating.DefaultRating. A repeated
// abbreviation keeps its first position and its last rating.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingAbbreviationColumn
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	abvIdx, ratingIdx := -1, -1
	for i, name := range header {
		switch normalizeColumn(name) {
		case columnAbbreviation:
			if abvIdx < 0 {
				abvIdx = i
			}
		case columnRating:
			if ratingIdx < 0 {
				ratingIdx = i
			}
		}
	}
	if abvIdx < 0 {
		return nil, ErrMissingAbbreviationColumn
	}

	records := make([]Record, 0)
	seen := make(map[string]int)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		abv := field(row, abvIdx)
		if abv == "" {
			continue
		}
		rec := Record{Abbreviation: abv, Rating: parseRating(field(row, ratingIdx))}
		if i, ok := seen[abv]; ok {
			records[i] = rec
			continue
		}
		seen[abv] = len(records)
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRating falls back to DefaultRating for anything that is not a
// finite number inside the stored rating range.
func parseRating(s string) int {
	if s == "" {
		return rating.DefaultRating
	}
	if v, err := strconv.Atoi(s); err == nil {
		if !rating.InRange(v) {
			return rating.DefaultRating
		}
		return v
	}
	// "1500.0" из табличных редакторов
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return rating.DefaultRating
	}
	f = math.Trunc(f)
	if f < rating.MinRating || f > rating.MaxRating {
		return rating.DefaultRating
	}
	return int(f)
}

// Write renders leaderboard rows with the download header.
func Write(w io.Writer, entries []models.LeaderboardEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Sl),
			e.Abbreviation,
			strconv.Itoa(e.Rating),
			e.Rank.String(),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
