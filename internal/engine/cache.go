package engine

import (
	"sync"
	"time"
)

// LoadFunc produces the column store backing a Cache.
type LoadFunc func() (*ColumnStore, error)

// Cache memoizes the dataset for the process lifetime. The loader runs at
// most once no matter how many goroutines call Load.
type Cache struct {
	load LoadFunc
	once sync.Once
	done chan struct{}

	ds      *Dataset
	err     error
	elapsed time.Duration
}

// NewCache returns a Cache that will call load on first use.
func NewCache(load LoadFunc) *Cache {
	return &Cache{load: load, done: make(chan struct{})}
}

// NewFileCache returns a Cache over the CSV file at path.
func NewFileCache(path string) *Cache {
	return NewCache(func() (*ColumnStore, error) { return LoadColumnar(path) })
}

// Load returns the dataset, loading it on the first call and blocking
// until that load has finished.
func (c *Cache) Load() (*Dataset, error) {
	c.once.Do(func() {
		defer close(c.done)
		t0 := time.Now()
		store, err := c.load()
		c.elapsed = time.Since(t0)
		if err != nil {
			c.err = err
			return
		}
		c.ds = NewDataset(store)
	})
	<-c.done
	return c.ds, c.err
}

// Peek returns the dataset without blocking. loaded is false while the
// first Load is still running or has not been started.
func (c *Cache) Peek() (ds *Dataset, loaded bool, err error) {
	select {
	case <-c.done:
		return c.ds, true, c.err
	default:
		return nil, false, ErrNotLoaded
	}
}

// Elapsed reports how long the load took. It is zero until loaded.
func (c *Cache) Elapsed() time.Duration {
	select {
	case <-c.done:
		return c.elapsed
	default:
		return 0
	}
}
