package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBlobStore keeps uploaded binaries under <dir>/uploads and issues
// file:// URLs. Upload paths follow the
// "works/<projectID>/<timestamp>_<filename>" convention.
type FileBlobStore struct {
	Dir string
}

func (b FileBlobStore) Upload(path string, data []byte) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("upload: empty path")
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("upload: invalid path %q", path)
	}

	dst := filepath.Join(b.Dir, "uploads", clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}
