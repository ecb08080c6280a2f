package importer

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"flicklog/internal/domain"

	"github.com/pkg/errors"
)

// ParseIMDbCSV reads an IMDb ratings export. Relevant columns: Title,
// Your Rating (1-10), Date Rated, Year, Title Type (movie, tvSeries, ...).
func ParseIMDbCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	col := columnIndex(header)
	if col.idx("title") < 0 {
		return nil, errors.New("not an imdb export: missing Title column")
	}
	var entries []Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		title := field(rec, col.idx("title"))
		if title == "" {
			continue
		}
		e := Entry{
			Title:     title,
			MediaType: imdbMediaType(field(rec, col.idx("title type"))),
			ListType:  domain.ListFinished,
		}
		if e.MediaType == "" {
			continue // episodes, video games, shorts we don't track
		}
		if y, err := strconv.Atoi(field(rec, col.idx("year"))); err == nil {
			e.Year = y
		}
		if n, err := strconv.Atoi(field(rec, col.idx("your rating"))); err == nil && n >= 1 && n <= 10 {
			e.Rating = &n
		}
		if d, err := time.Parse("2006-01-02", field(rec, col.idx("date rated"))); err == nil {
			e.WatchedAt = &d
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func imdbMediaType(titleType string) string {
	switch strings.ToLower(titleType) {
	case "movie", "tvmovie", "tv movie":
		return domain.MediaTypeMovie
	case "tvseries", "tv series", "tvminiseries", "tv mini series", "tv mini-series":
		return domain.MediaTypeTV
	}
	return ""
}
