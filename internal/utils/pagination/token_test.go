package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.True(t, createdAt.Equal(cursor.CreatedAt))
	assert.Equal(t, int64(42), cursor.ID)

	// Non-UTC input is normalised
	loc := time.FixedZone("UTC+7", 7*3600)
	local := time.Date(2023, 5, 15, 21, 30, 45, 0, loc)
	cursor, err = DecodeToken(EncodeToken(local, 7))
	assert.NoError(t, err)
	assert.True(t, local.Equal(cursor.CreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("notadate|1")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|abc")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "id parse")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}
