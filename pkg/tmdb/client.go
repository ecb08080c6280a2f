// Package tmdb is a minimal client for The Movie Database API v3, covering
// the search and detail endpoints FlickLog needs.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func New(apiKey, base string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
}

type TVShow struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Overview        string      `json:"overview"`
	PosterPath      string      `json:"poster_path"`
	FirstAirDate    string      `json:"first_air_date"`
	NumberOfSeasons int         `json:"number_of_seasons"`
	Status          string      `json:"status"`
	NextEpisodeToAir *EpisodeRef `json:"next_episode_to_air"`
}

// EpisodeRef is the next_episode_to_air block of a TV detail response.
type EpisodeRef struct {
	AirDate       string `json:"air_date"` // YYYY-MM-DD
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
}

// AirTime parses the episode's air date; TMDb dates are date-only.
func (e *EpisodeRef) AirTime() (time.Time, error) {
	return time.Parse("2006-01-02", e.AirDate)
}

type SearchMoviesResponse struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

type SearchTVResponse struct {
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
	Results      []TVShow `json:"results"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)
	u.RawQuery = params.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, "tmdb request")
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return errors.Errorf("tmdb status %d for %s", res.StatusCode, path)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) SearchMovies(ctx context.Context, query string, year int) (*SearchMoviesResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("primary_release_year", fmt.Sprint(year))
	}
	var out SearchMoviesResponse
	if err := c.get(ctx, "/search/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchTV(ctx context.Context, query string, year int) (*SearchTVResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("first_air_date_year", fmt.Sprint(year))
	}
	var out SearchTVResponse
	if err := c.get(ctx, "/search/tv", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	var out Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTVShow fetches TV details including next_episode_to_air, the input the
// metadata refresh job feeds to tv_show_metadata.
func (c *Client) GetTVShow(ctx context.Context, id int64) (*TVShow, error) {
	var out TVShow
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
