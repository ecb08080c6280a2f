package importer

import (
	"archive/zip"
	"bytes"
	"testing"

	"flicklog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files [][2]string) (*bytes.Reader, int64) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes()), int64(buf.Len())
}

func TestParseLetterboxdZip_WatchedAndWatchlist(t *testing.T) {
	r, size := buildZip(t, [][2]string{
		{"watched.csv", "Date,Name,Year,Letterboxd URI\n" +
			"2026-01-05,Heat,1995,https://boxd.it/a\n" +
			"2026-02-14,Arrival,2016,https://boxd.it/b\n"},
		{"watchlist.csv", "Date,Name,Year,Letterboxd URI\n" +
			"2026-03-01,Dune,2021,https://boxd.it/c\n"},
	})

	entries, err := ParseLetterboxdZip(r, size)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byTitle := map[string]Entry{}
	for _, e := range entries {
		byTitle[e.Title] = e
		assert.Equal(t, domain.MediaTypeMovie, e.MediaType)
	}

	heat := byTitle["Heat"]
	assert.Equal(t, 1995, heat.Year)
	assert.Equal(t, domain.ListFinished, heat.ListType)
	require.NotNil(t, heat.WatchedAt)
	assert.Equal(t, "2026-01-05", heat.WatchedAt.Format("2006-01-02"))
	assert.Nil(t, heat.Rating)

	dune := byTitle["Dune"]
	assert.Equal(t, domain.ListWatchlist, dune.ListType)
	assert.Nil(t, dune.WatchedAt)
}

func TestParseLetterboxdZip_RatingsMergeIntoWatched(t *testing.T) {
	r, size := buildZip(t, [][2]string{
		{"watched.csv", "Date,Name,Year,Letterboxd URI\n" +
			"2026-01-05,Heat,1995,https://boxd.it/a\n"},
		{"ratings.csv", "Date,Name,Year,Letterboxd URI,Rating\n" +
			"2026-01-06,Heat,1995,https://boxd.it/a,4.5\n"},
	})

	entries, err := ParseLetterboxdZip(r, size)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "Heat", e.Title)
	assert.Equal(t, domain.ListFinished, e.ListType)
	require.NotNil(t, e.Rating)
	assert.Equal(t, 9, *e.Rating) // 4.5 stars doubled to the 1-10 scale
	require.NotNil(t, e.WatchedAt)
	assert.Equal(t, "2026-01-05", e.WatchedAt.Format("2006-01-02"))
}

func TestParseLetterboxdZip_FinishedOutranksWatchlist(t *testing.T) {
	r, size := buildZip(t, [][2]string{
		{"watchlist.csv", "Date,Name,Year,Letterboxd URI\n" +
			"2026-01-01,Heat,1995,https://boxd.it/a\n"},
		{"watched.csv", "Date,Name,Year,Letterboxd URI\n" +
			"2026-01-05,Heat,1995,https://boxd.it/a\n"},
	})

	entries, err := ParseLetterboxdZip(r, size)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ListFinished, entries[0].ListType)
}

func TestParseLetterboxdZip_NestedPathsAndUnknownFiles(t *testing.T) {
	r, size := buildZip(t, [][2]string{
		{"export/watched.csv", "Date,Name,Year,Letterboxd URI\n" +
			"2026-01-05,Heat,1995,https://boxd.it/a\n"},
		{"export/diary.csv", "Date,Name,Year\n2026-01-05,Ignored,2000\n"},
	})

	entries, err := ParseLetterboxdZip(r, size)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Heat", entries[0].Title)
}

func TestParseLetterboxdZip_NoKnownFiles(t *testing.T) {
	r, size := buildZip(t, [][2]string{
		{"readme.txt", "nothing here"},
	})

	_, err := ParseLetterboxdZip(r, size)
	assert.Error(t, err)
}
