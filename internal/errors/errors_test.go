package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "without cause",
			err:      New(CodeNotFound, "no CSV files found"),
			expected: "[not_found] no CSV files found",
		},
		{
			name:     "with cause",
			err:      Wrap(CodeArchiveRead, "failed to read archive", fmt.Errorf("unexpected EOF")),
			expected: "[archive_read] failed to read archive: unexpected EOF",
		},
		{
			name:     "nil receiver",
			err:      nil,
			expected: "unknown domain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestHasCode(t *testing.T) {
	base := NewUnsupportedFormat(".json")
	wrapped := fmt.Errorf("creating ingestor: %w", base)

	assert.True(t, HasCode(base, CodeUnsupportedFormat))
	assert.True(t, HasCode(wrapped, CodeUnsupportedFormat))
	assert.False(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(fmt.Errorf("plain"), CodeNotFound))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("zip: not a valid zip file")
	err := NewArchiveRead("/tmp/archive.zip", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestConstructorsCarryContext(t *testing.T) {
	err := NewAmbiguousInput("/data/extracted", 3)
	assert.Equal(t, CodeAmbiguousInput, err.Code)
	assert.Equal(t, 3, err.Context["count"])
	assert.Contains(t, err.Message, "expected exactly one")

	shape := NewShapeMismatch(100, 99)
	assert.Equal(t, CodeShapeMismatch, shape.Code)
	assert.Equal(t, 100, shape.Context["feature_rows"])
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "missing archive maps to 404",
			err:            NewArchiveMissing("/data/housing.zip"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "not found maps to 404",
			err:            NewNotFound("/data/extracted"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "ambiguous input maps to 409",
			err:            NewAmbiguousInput("/data/extracted", 2),
			expectedStatus: http.StatusConflict,
			expectedCode:   "ambiguous_input",
		},
		{
			name:           "wrapped domain error is unwrapped",
			err:            fmt.Errorf("ingest step: %w", NewInvalidFormat("data.txt")),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_format",
		},
		{
			name:           "plain error maps to 500",
			err:            fmt.Errorf("disk on fire"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromDomain(tt.err)
			assert.Equal(t, tt.expectedStatus, apiErr.StatusCode)
			assert.Equal(t, tt.expectedCode, apiErr.ErrorCode)
		})
	}
}
