// Package blob deposits converted profile documents as JSON artifacts
// in a local output directory, one file per document. Files are
// written atomically (write .tmp then rename) so a consumer scanning
// the directory never sees a partial document.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Container writes artifacts into a single output directory.
type Container struct {
	dir   string
	now   func() time.Time
	newID func() string
}

// NewContainer creates a Container targeting dir. The directory is
// created on first Put if it does not exist.
func NewContainer(dir string) *Container {
	return &Container{
		dir:   dir,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Put writes one serialized document and returns the path of the
// artifact. Names combine a UTC timestamp with a short random suffix
// so documents converted in the same second never collide.
func (c *Container) Put(data []byte) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", c.now().UTC().Format("20060102T150405Z"), shortID(c.newID()))
	target := filepath.Join(c.dir, name)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("renaming artifact: %w", err)
	}
	return target, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
