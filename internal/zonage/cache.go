package zonage

import (
	"sync"

	"github.com/rotisserie/eris"
)

// Datasets bundles the two loaded reference datasets. Both are
// write-once at load and safe for concurrent readers without locking.
type Datasets struct {
	QPV *ZoneLayer
	ZRR *RuralRegistry
}

// Load reads both reference datasets eagerly. Any failure here is a
// configuration error: the system must not serve requests without
// valid zoning data.
func Load(qpvPath, zrrPath string) (*Datasets, error) {
	qpv, err := LoadZoneLayer(qpvPath)
	if err != nil {
		return nil, eris.Wrap(err, "zonage: load reference datasets")
	}
	zrr, err := LoadRuralRegistry(zrrPath)
	if err != nil {
		return nil, eris.Wrap(err, "zonage: load reference datasets")
	}
	return &Datasets{QPV: qpv, ZRR: zrr}, nil
}

// Cache defers dataset loading to first use behind a single-init
// barrier. A failed load is sticky: every later Get returns the same
// error instead of retrying.
type Cache struct {
	qpvPath string
	zrrPath string

	once sync.Once
	ds   *Datasets
	err  error
}

// NewCache creates a lazy dataset cache for the given file paths.
func NewCache(qpvPath, zrrPath string) *Cache {
	return &Cache{qpvPath: qpvPath, zrrPath: zrrPath}
}

// Get returns the shared datasets, loading them on the first call.
func (c *Cache) Get() (*Datasets, error) {
	c.once.Do(func() {
		c.ds, c.err = Load(c.qpvPath, c.zrrPath)
	})
	return c.ds, c.err
}
