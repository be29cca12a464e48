package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-app/fintrack_backend/internal/utils/pagination"
)

func TestEncodeDecodeToken_RoundTrip(t *testing.T) {
	date := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 1, 10, 9, 30, 15, 123456789, time.UTC)

	token := pagination.EncodeToken(date, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreatedAt, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, gotDate.Equal(date))
	assert.True(t, gotCreatedAt.Equal(createdAt))
}

func TestDecodeToken_Invalid(t *testing.T) {
	t.Run("not base64", func(t *testing.T) {
		_, _, err := pagination.DecodeToken("%%%not-base64%%%")
		assert.Error(t, err)
	})

	t.Run("missing separator", func(t *testing.T) {
		token := base64.StdEncoding.EncodeToString([]byte("2026-01-10T00:00:00Z"))
		_, _, err := pagination.DecodeToken(token)
		assert.Error(t, err)
	})

	t.Run("unparseable timestamps", func(t *testing.T) {
		token := base64.StdEncoding.EncodeToString([]byte("yesterday|today"))
		_, _, err := pagination.DecodeToken(token)
		assert.Error(t, err)
	})
}
