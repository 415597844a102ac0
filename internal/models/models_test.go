package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateURI(t *testing.T) {
	assert.Equal(t, "magnet:?xt=x", Candidate{MagnetURI: "magnet:?xt=x", Link: "http://a"}.URI())
	assert.Equal(t, "http://a", Candidate{Link: "http://a"}.URI())
	assert.Equal(t, "", Candidate{}.URI())
}

func TestTotalLength(t *testing.T) {
	p := &ParsedTorrent{Files: []TorrentFile{{Length: 10}, {Length: 32}}}
	assert.Equal(t, int64(42), p.TotalLength())

	p.Length = 7
	assert.Equal(t, int64(7), p.TotalLength())
}

func TestMediaTypeValid(t *testing.T) {
	assert.True(t, MediaTypeMovie.Valid())
	assert.True(t, MediaTypeSeries.Valid())
	assert.False(t, MediaType("channel").Valid())
}

func TestStreamRequestString(t *testing.T) {
	r := StreamRequest{TitleID: "tt1", MediaType: MediaTypeSeries, Season: 1, Episode: 2, HasEpisode: true}
	assert.Equal(t, "series tt1 S01E02", r.String())
	assert.Equal(t, "series tt1 S00E01", StreamRequest{TitleID: "tt1", MediaType: MediaTypeSeries, Episode: 1, HasEpisode: true}.String())
	assert.Equal(t, "series tt1", StreamRequest{TitleID: "tt1", MediaType: MediaTypeSeries}.String())
	assert.Equal(t, "movie tt2", StreamRequest{TitleID: "tt2", MediaType: MediaTypeMovie}.String())
}
