// Package catalog records every written portrait in a LevelDB database so
// later tools can find them without walking the output tree.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const portraitPrefix = "portrait/"

// ErrNotFound is returned by Get for unknown portraits.
var ErrNotFound = errors.New("catalog: portrait not found")

// Entry describes one written portrait.
type Entry struct {
	Bundle   string `json:"bundle"`
	Char     string `json:"char"`
	Body     string `json:"body"`
	Core     string `json:"core,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Mirrored bool   `json:"mirrored,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Path     string `json:"path"` // relative to the character directory
}

// File returns the base name of the portrait file.
func (e Entry) File() string {
	return filepath.Base(e.Path)
}

// Key returns the database key of the entry.
func (e Entry) Key() string {
	return Key(e.Char, e.Path)
}

// Key builds the database key of a portrait.
func Key(char, relPath string) string {
	return portraitPrefix + char + "/" + filepath.ToSlash(relPath)
}

// Catalog is an open portrait catalog.
type Catalog struct {
	db *leveldb.DB
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "catalog: create dir")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: open %s", path)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put records e, replacing any earlier entry for the same file.
func (c *Catalog) Put(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "catalog: encode entry")
	}
	if err := c.db.Put([]byte(e.Key()), data, nil); err != nil {
		return errors.Wrapf(err, "catalog: put %s", e.Key())
	}
	return nil
}

// Get returns the entry of one portrait.
func (c *Catalog) Get(char, relPath string) (Entry, error) {
	var e Entry
	data, err := c.db.Get([]byte(Key(char, relPath)), nil)
	if err == leveldb.ErrNotFound {
		return e, ErrNotFound
	}
	if err != nil {
		return e, errors.Wrap(err, "catalog: get")
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, errors.Wrap(err, "catalog: decode entry")
	}
	return e, nil
}

// List returns every entry of char in key order.
func (c *Catalog) List(char string) ([]Entry, error) {
	iter := c.db.NewIterator(util.BytesPrefix([]byte(portraitPrefix+char+"/")), nil)
	defer iter.Release()

	var out []Entry
	for iter.Next() {
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", iter.Key(), err)
		}
		out = append(out, e)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "catalog: iterate")
	}
	return out, nil
}

// Frames returns the standard-variant portraits of char whose file name
// starts with body + "_", sorted by file name. Portraits of bundles sharing
// the character code sit in per-bundle subdirectories and are included.
func (c *Catalog) Frames(char, body string) ([]Entry, error) {
	all, err := c.List(char)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range all {
		if e.Variant == "" && strings.HasPrefix(e.File(), body+"_") {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].File() < out[j].File() })
	return out, nil
}
