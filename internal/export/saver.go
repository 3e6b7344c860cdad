package export

import (
	"os"
	"path/filepath"
)

// DirSaver saves rendered artifacts into a directory. It is the local-mode
// stand-in for a browser file download.
type DirSaver struct {
	Dir string
}

// NewDirSaver creates a DirSaver for dir.
func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{Dir: dir}
}

// Save writes data under name and returns the full path.
func (s *DirSaver) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
