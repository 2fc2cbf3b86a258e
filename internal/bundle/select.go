package bundle

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Ext is the file extension of extracted bundles.
const Ext = ".json"

// List returns the bundle files directly inside dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "bundle: list %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Select filters paths by a character selector. The selector matches either
// the bundle number (leading "a" and zeros ignored, so "7", "007" and "a007"
// are equal) or the character code derived from the bundle contents. An
// empty selector keeps every path.
func Select(paths []string, query string, l Loader) []string {
	if query == "" {
		return paths
	}
	query = strings.ToLower(query)

	var out []string
	for _, path := range paths {
		if n := bundleNumber(query); n != "" && n == bundleNumber(Name(path)) {
			out = append(out, path)
			continue
		}

		b, err := l.Load(path)
		if err != nil {
			glog.Warningf("selecting %q: %v", path, err)
			continue
		}
		if b.CharCode() == query {
			out = append(out, path)
		}
	}
	return out
}

// bundleNumber normalizes "a007" and "7" to "7". Non-numeric names give "".
func bundleNumber(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), "a")
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return ""
	}
	if n := strings.TrimLeft(s, "0"); n != "" {
		return n
	}
	return "0"
}
