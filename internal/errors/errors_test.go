package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamErrorMessage(t *testing.T) {
	err := NewParseError("bad magnet", io.ErrUnexpectedEOF)

	assert.Equal(t, "PARSE_FAILURE: bad magnet (caused by: unexpected EOF)", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	assert.Equal(t, "NO_MATCHING_EPISODE: no file for S01E09", NewNoMatchingEpisodeError(1, 9).Error())
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("attempt 2: %w", NewTransientError("engine", nil))

	assert.True(t, IsType(wrapped, ErrorTypeTransientResolution))
	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsTransient(NewParseError("x", nil)))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsType(nil, ErrorTypeParseFailure))
}
