package texture

import (
	"io/fs"
	"path/filepath"
	"strings"

	"softengine/internal/logging"
)

// imageExts lists decodable extensions. Earlier entries win when two files
// share a stem (PNG keeps its alpha channel over a JPEG of the same name).
var imageExts = []string{".png", ".tga", ".bmp", ".gif", ".jpg", ".jpeg"}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir and its subdirectories for image files.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped; the walk goes on
			logging.Logger().Warn("texture index: skipping", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank := extRank(ext)
		if rank < 0 {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || rank < extRank(strings.ToLower(filepath.Ext(existing))) {
			idx.entries[stem] = path
		}
		return nil
	})
	if err != nil {
		logging.Logger().Warn("texture index: walk failed", "dir", dir, "err", err)
	}

	return idx
}

func extRank(ext string) int {
	for i, e := range imageExts {
		if e == ext {
			return i
		}
	}
	return -1
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// Directory prefixes and the extension of name are ignored.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
