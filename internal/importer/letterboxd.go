// Package importer parses third-party export files (Letterboxd, IMDb) into
// normalized library entries.
package importer

import (
	"archive/zip"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"flicklog/internal/domain"

	"github.com/pkg/errors"
)

// Entry is one normalized row from an export file.
type Entry struct {
	Title     string
	Year      int
	MediaType string // movie | tv
	ListType  string
	Rating    *int // 1..10
	WatchedAt *time.Time
}

// Letterboxd export files we understand, mapped to system lists.
var letterboxdFiles = map[string]string{
	"watched.csv":   domain.ListFinished,
	"ratings.csv":   domain.ListFinished,
	"watchlist.csv": domain.ListWatchlist,
}

// ParseLetterboxdZip reads a Letterboxd account export (a ZIP of CSV files).
// Files the export doesn't include are skipped; an archive with none of the
// expected files is an error.
func ParseLetterboxdZip(r io.ReaderAt, size int64) ([]Entry, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "open zip")
	}
	var entries []Entry
	found := false
	for _, f := range zr.File {
		name := baseName(f.Name)
		listType, ok := letterboxdFiles[name]
		if !ok {
			continue
		}
		found = true
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", name)
		}
		parsed, err := parseLetterboxdCSV(rc, listType)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		entries = append(entries, parsed...)
	}
	if !found {
		return nil, errors.New("no letterboxd csv files in archive")
	}
	return dedupe(entries), nil
}

// parseLetterboxdCSV reads one export CSV. Columns: Date, Name, Year,
// Letterboxd URI and, in ratings.csv, a trailing Rating on a 0.5-5 scale.
func parseLetterboxdCSV(r io.Reader, listType string) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	col := columnIndex(header)
	var entries []Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		title := field(rec, col.idx("name"))
		if title == "" {
			continue
		}
		e := Entry{
			Title:     title,
			MediaType: domain.MediaTypeMovie, // Letterboxd exports are films only
			ListType:  listType,
		}
		if y, err := strconv.Atoi(field(rec, col.idx("year"))); err == nil {
			e.Year = y
		}
		if d, err := time.Parse("2006-01-02", field(rec, col.idx("date"))); err == nil && listType == domain.ListFinished {
			e.WatchedAt = &d
		}
		// Letterboxd rates 0.5-5 in half-star steps; double to our 1-10 scale.
		if f, err := strconv.ParseFloat(field(rec, col.idx("rating")), 64); err == nil && f > 0 {
			rating := int(f * 2)
			e.Rating = &rating
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// dedupe keeps the richest entry per (title, year): rated rows win over
// unrated ones so ratings.csv complements rather than duplicates watched.csv.
func dedupe(entries []Entry) []Entry {
	type key struct {
		title string
		year  int
	}
	index := make(map[key]int)
	var out []Entry
	for _, e := range entries {
		k := key{strings.ToLower(e.Title), e.Year}
		if i, ok := index[k]; ok {
			if out[i].Rating == nil && e.Rating != nil {
				out[i].Rating = e.Rating
			}
			if out[i].WatchedAt == nil && e.WatchedAt != nil {
				out[i].WatchedAt = e.WatchedAt
			}
			// finished outranks watchlist when both files list the title
			if out[i].ListType == domain.ListWatchlist && e.ListType == domain.ListFinished {
				out[i].ListType = domain.ListFinished
			}
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}

type columns map[string]int

func columnIndex(header []string) columns {
	col := make(columns, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

// idx returns -1 for columns the file doesn't have.
func (c columns) idx(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return strings.ToLower(p[i+1:])
	}
	return strings.ToLower(p)
}
