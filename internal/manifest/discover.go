package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// skipDirs are never searched for manifests.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// SkipDir reports whether a directory with the given base name is excluded
// from discovery and watching.
func SkipDir(name string) bool {
	return skipDirs[name]
}

// Discover returns every manifest under root in lexical order.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsManifest(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering manifests in %s: %w", root, err)
	}
	return paths, nil
}
