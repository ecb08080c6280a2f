package importer

import (
	"strings"
	"testing"

	"flicklog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imdbSample = `Const,Your Rating,Date Rated,Title,URL,Title Type,IMDb Rating,Runtime (mins),Year,Genres,Num Votes,Release Date,Directors
tt0113277,9,2026-01-10,Heat,https://www.imdb.com/title/tt0113277/,movie,8.3,170,1995,"Action, Crime, Drama",700000,1995-12-15,Michael Mann
tt0903747,10,2026-01-11,Breaking Bad,https://www.imdb.com/title/tt0903747/,tvSeries,9.5,49,2008,"Crime, Drama, Thriller",2000000,2008-01-20,
tt0944947,,2026-01-12,Game of Thrones,https://www.imdb.com/title/tt0944947/,tvSeries,9.2,57,2011,"Action, Adventure, Drama",2200000,2011-04-17,
tt1375666,8,2026-01-13,Some Video Game,https://www.imdb.com/title/tt1375666/,videoGame,8.8,0,2010,Action,500,2010-07-16,
`

func TestParseIMDbCSV(t *testing.T) {
	entries, err := ParseIMDbCSV(strings.NewReader(imdbSample))
	require.NoError(t, err)
	require.Len(t, entries, 3) // the video game row is dropped

	byTitle := map[string]Entry{}
	for _, e := range entries {
		byTitle[e.Title] = e
		assert.Equal(t, domain.ListFinished, e.ListType)
	}

	heat := byTitle["Heat"]
	assert.Equal(t, domain.MediaTypeMovie, heat.MediaType)
	assert.Equal(t, 1995, heat.Year)
	require.NotNil(t, heat.Rating)
	assert.Equal(t, 9, *heat.Rating)
	require.NotNil(t, heat.WatchedAt)
	assert.Equal(t, "2026-01-10", heat.WatchedAt.Format("2006-01-02"))

	bb := byTitle["Breaking Bad"]
	assert.Equal(t, domain.MediaTypeTV, bb.MediaType)

	// Unrated rows still import without a rating.
	got := byTitle["Game of Thrones"]
	assert.Nil(t, got.Rating)
}

func TestParseIMDbCSV_RejectsUnrelatedCSV(t *testing.T) {
	_, err := ParseIMDbCSV(strings.NewReader("a,b,c\n1,2,3\n"))
	assert.Error(t, err)
}
