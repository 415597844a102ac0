package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/models"
)

func TestParseSearchArgs(t *testing.T) {
	req, err := parseSearchArgs("movie", "tt0133093")
	require.NoError(t, err)
	assert.Equal(t, models.StreamRequest{TitleID: "tt0133093", MediaType: models.MediaTypeMovie}, req)

	req, err = parseSearchArgs("series", "tt0903747:2:5")
	require.NoError(t, err)
	assert.Equal(t, models.StreamRequest{TitleID: "tt0903747", MediaType: models.MediaTypeSeries, Season: 2, Episode: 5, HasEpisode: true}, req)

	req, err = parseSearchArgs("series", "tt0903747:0:3")
	require.NoError(t, err)
	assert.Equal(t, models.StreamRequest{TitleID: "tt0903747", MediaType: models.MediaTypeSeries, Season: 0, Episode: 3, HasEpisode: true}, req)
}

func TestParseSearchArgs_Invalid(t *testing.T) {
	cases := [][2]string{
		{"channel", "tt1"},
		{"movie", "123"},
		{"movie", "ttabc"},
		{"series", "tt1:2"},
		{"series", "tt1:x:2"},
		{"series", "tt1:-1:2"},
	}
	for _, c := range cases {
		_, err := parseSearchArgs(c[0], c[1])
		assert.Error(t, err, "%s %s", c[0], c[1])
	}

	_, err := parseSearchArgs("movie", "ttabc")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidID))
}

func TestRootCommand(t *testing.T) {
	root := newRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "search")

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "config.yaml", flag.DefValue)
}
