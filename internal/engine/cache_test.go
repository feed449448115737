package engine

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	cache := NewCache(func() (*ColumnStore, error) {
		calls.Add(1)
		<-release
		return ReadColumnar(strings.NewReader(sampleCSV))
	})

	_, loaded, err := cache.Peek()
	assert.False(t, loaded)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Zero(t, cache.Elapsed())

	var wg sync.WaitGroup
	results := make([]*Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := cache.Load()
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}

	ds, loaded, err := cache.Peek()
	require.True(t, loaded)
	require.NoError(t, err)
	assert.Equal(t, 9, ds.Len())
}

func TestCacheKeepsLoadError(t *testing.T) {
	boom := errors.New("disk on fire")
	var calls atomic.Int32
	cache := NewCache(func() (*ColumnStore, error) {
		calls.Add(1)
		return nil, boom
	})

	_, err := cache.Load()
	assert.ErrorIs(t, err, boom)
	_, err = cache.Load()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), calls.Load())

	ds, loaded, err := cache.Peek()
	assert.True(t, loaded)
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, boom)
}

func TestFileCacheMissingFile(t *testing.T) {
	cache := NewFileCache(t.TempDir() + "/nope.csv")
	_, err := cache.Load()
	assert.Error(t, err)
}
