// Package cache keeps the function tables of parsed source files on disk, so that a file whose
// text hasn't changed needn't be parsed again. An entry is found by the hash of the
// preprocessed text of the file, and so is never stale: a changed file has a new key.
package cache

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"
)

const SUFFIX = ".fnt"

// A Cache is a directory holding one file per entry, each a function table encoded with gob
// and compressed with zstd.
type Cache struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, report.WrapErr("cache/write", nil, err, dir)
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, report.WrapErr("internal", nil, err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, report.WrapErr("internal", nil, err)
	}
	return &Cache{dir: dir, encoder: encoder, decoder: decoder}, nil
}

func (c *Cache) Dir() string {
	return c.dir
}

// Key is the hex BLAKE2b-256 hash of the text.
func Key(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+SUFFIX)
}

// Load returns the table stored under the key, and false if there isn't one. An entry which
// exists but can't be decoded is an error rather than a miss.
func (c *Cache) Load(key string) (values.FunctionTable, bool, error) {
	path := c.path(key)
	compressed, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, report.WrapErr("cache/read", nil, err, path)
	}
	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, report.WrapErr("cache/decode", nil, err, key)
	}
	table, err := values.DecodeTable(data)
	if err != nil {
		return nil, false, report.WrapErr("cache/decode", nil, err, key)
	}
	return table, true, nil
}

// Store writes the table under the key. The entry is written to a temporary file and renamed,
// so a reader never sees half of one.
func (c *Cache) Store(key string, table values.FunctionTable) error {
	data, err := values.EncodeTable(table)
	if err != nil {
		return report.WrapErr("cache/encode", nil, err)
	}
	path := c.path(key)
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return report.WrapErr("cache/write", nil, err, path)
	}
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return report.WrapErr("cache/write", nil, err, path)
	}
	_, err = tmp.Write(c.encoder.EncodeAll(data, nil))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return report.WrapErr("cache/write", nil, err, path)
	}
	return nil
}

// Clear deletes the cache directory and everything in it.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return report.WrapErr("cache/clear", nil, err, c.dir)
	}
	return nil
}
