// Package uploads stores project images on local disk for the reference API.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/studio-site/internal/apperror"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

// Disk keeps uploaded files in one flat directory under generated names.
// The stored name is the image reference saved on the project.
type Disk struct {
	dir string
}

// NewDisk creates dir if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: creating %s: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

// Save copies r to a new file and returns its reference. The original
// name contributes only its extension.
func (d *Disk) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", apperror.ValidationFailed("image",
			fmt.Sprintf("%s is not a supported image type", originalName))
	}

	ref := xid.New().String() + ext
	f, err := os.OpenFile(filepath.Join(d.dir, ref), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("uploads: creating %s: %w", ref, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("uploads: writing %s: %w", ref, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("uploads: closing %s: %w", ref, err)
	}
	return ref, nil
}

// Remove deletes a stored file. Unknown references are not an error.
func (d *Disk) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, filepath.Base(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("uploads: removing %s: %w", ref, err)
	}
	return nil
}

// Handler serves stored files. Mount it with http.StripPrefix.
func (d *Disk) Handler() http.Handler {
	return http.FileServer(http.Dir(d.dir))
}
