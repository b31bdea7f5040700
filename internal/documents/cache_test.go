package documents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExtractor struct {
	calls int
	text  string
	err   error
}

func (c *countingExtractor) Extract(context.Context, string) (string, error) {
	c.calls++
	return c.text, c.err
}

type memoryStore struct {
	data   map[string]string
	getErr error
	setErr error
}

func (m *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func TestCachedExtractor(t *testing.T) {
	next := &countingExtractor{text: "cv text"}
	store := &memoryStore{data: map[string]string{}}
	cached := NewCachedExtractor(next, store, 0, nil)

	for i := 0; i < 3; i++ {
		text, err := cached.Extract(context.Background(), "https://docs/cv.pdf")
		require.NoError(t, err)
		assert.Equal(t, "cv text", text)
	}
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, "cv text", store.data[CacheKey("https://docs/cv.pdf")])
}

func TestCachedExtractorBypassesBrokenStore(t *testing.T) {
	next := &countingExtractor{text: "cv text"}
	store := &memoryStore{data: map[string]string{}, getErr: errors.New("down"), setErr: errors.New("down")}
	cached := NewCachedExtractor(next, store, time.Minute, nil)

	text, err := cached.Extract(context.Background(), "https://docs/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "cv text", text)
	assert.Equal(t, 1, next.calls)
}

func TestCachedExtractorDoesNotCacheFailures(t *testing.T) {
	next := &countingExtractor{err: errors.New("timeout")}
	store := &memoryStore{data: map[string]string{}}
	cached := NewCachedExtractor(next, store, time.Minute, nil)

	_, err := cached.Extract(context.Background(), "https://docs/cv.pdf")
	require.Error(t, err)
	assert.Empty(t, store.data)
}

func TestCacheKeyIsStable(t *testing.T) {
	a := CacheKey("https://docs/cv.pdf")
	assert.Equal(t, a, CacheKey("https://docs/cv.pdf"))
	assert.NotEqual(t, a, CacheKey("https://docs/other.pdf"))
	assert.True(t, strings.HasPrefix(a, cacheKeyPrefix))
}
