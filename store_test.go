package pagefetch_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/pagefetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredResult_JSON(t *testing.T) {
	t.Parallel()

	s := pagefetch.StoredResult{
		ID:          "abc",
		FetchedAt:   time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC),
		FetchResult: pagefetch.NewFailure("https://example.com", pagefetch.ErrorKindNetwork, "down"),
	}

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "abc", decoded["id"])
	assert.Equal(t, "2025-01-08T12:00:00Z", decoded["fetchedAt"])

	result, ok := decoded["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NETWORK", result["errorKind"])
	assert.Equal(t, true, result["retryable"])
}
