package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		EntryDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 3, 15, 14, 30, 45, 123456789, time.UTC),
		EntryID:   "9b2f6c1e-0d3a-4f57-8a5e-2c7d1b0e4f11",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token)

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, cursor, decoded)

	zero := Cursor{EntryID: "x"}
	decodedZero, err := DecodeToken(EncodeToken(zero))
	require.NoError(t, err)
	assert.Equal(t, zero, decodedZero)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	encode := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	_, err = DecodeToken(encode("2023-05-15T00:00:00Z"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(encode("2023-05-15T00:00:00Z|2023-05-15T14:30:45Z|"))
	assert.Error(t, err, "an empty id is rejected")
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(encode("notadate|2023-05-15T14:30:45.123456789Z|id"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")

	_, err = DecodeToken(encode("2023-05-15T00:00:00Z|later|id"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestAfter(t *testing.T) {
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	c1 := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	c2 := c1.Add(time.Minute)

	assert.True(t, After(Cursor{d1, c2, "a"}, Cursor{d2, c1, "a"}), "older date comes later in newest-first order")
	assert.False(t, After(Cursor{d2, c1, "a"}, Cursor{d1, c2, "a"}))
	assert.True(t, After(Cursor{d1, c1, "a"}, Cursor{d1, c2, "a"}), "same date, earlier creation comes later")
	assert.False(t, After(Cursor{d1, c2, "a"}, Cursor{d1, c2, "a"}), "the cursor row itself is excluded")

	assert.True(t, After(Cursor{d1, c1, "a"}, Cursor{d1, c1, "b"}), "ties on both times fall back to the id")
	assert.False(t, After(Cursor{d1, c1, "b"}, Cursor{d1, c1, "a"}))
}
