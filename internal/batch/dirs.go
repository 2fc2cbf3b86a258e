package batch

import (
	"path"

	"github.com/golang/glog"

	"diced-portraits/internal/bundle"
)

// OutputDirs assigns each bundle its output directory, relative to a
// command's output root and keyed by bundle name. A character code owned by
// one bundle maps to "<char>"; bundles sharing a code each get
// "<char>/<bundle>" so their files never overlap. Bundles that fail to load
// are left out and fall back to "<char>" when processed.
func OutputDirs(l bundle.Loader, paths []string) map[string]string {
	chars := make(map[string]string, len(paths))
	owners := make(map[string][]string)
	for _, p := range paths {
		b, err := l.Load(p)
		if err != nil {
			continue
		}
		char := b.CharCode()
		chars[b.Name] = char
		owners[char] = append(owners[char], b.Name)
	}

	dirs := make(map[string]string, len(chars))
	for name, char := range chars {
		if len(owners[char]) > 1 {
			dirs[name] = path.Join(char, name)
			continue
		}
		dirs[name] = char
	}
	for char, names := range owners {
		if len(names) > 1 {
			glog.Warningf("character %q is shared by bundles %v, writing per-bundle directories", char, names)
		}
	}
	return dirs
}
