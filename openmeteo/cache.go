package openmeteo

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spaolacci/murmur3"
)

// Cache memoizes raw archive replies to gzip-compressed files so repeated
// runs do not put load on the API. The key is a hash of the canonical query
// encoding; entries never expire because the historical archive is
// append-only.
type Cache struct {
	dir string
}

// NewCache opens (creating if needed) a cache directory.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(values url.Values) string {
	h1, h2 := murmur3.Sum128([]byte(values.Encode()))
	return filepath.Join(c.dir, fmt.Sprintf("archive_%016x%016x.json.gz", h1, h2))
}

// Get returns the cached reply body for the query, if present.
func (c *Cache) Get(values url.Values) ([]byte, bool, error) {
	f, err := os.Open(c.path(values))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, false, err
	}
	defer zr.Close()

	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Put stores a reply body. The write goes through a temp file and rename so
// a crash never leaves a truncated entry behind.
func (c *Cache) Put(values url.Values, body []byte) error {
	target := c.path(values)

	tmp, err := os.CreateTemp(c.dir, "archive_*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if _, err := zw.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
