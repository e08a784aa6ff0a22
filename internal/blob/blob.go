// Package blob stores uploaded binary objects (product images, payment
// proofs) in named containers.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	ContainerProductImages = "product-images"
	ContainerPaymentProofs = "payment-proofs"
)

type Store interface {
	// Upload stores the object and returns the generated blob name.
	Upload(ctx context.Context, container, filename string, r io.Reader) (string, error)
}

// FileStore keeps blobs on the local filesystem, one directory per
// container.
type FileStore struct{ Dir string }

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) Upload(ctx context.Context, container, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.Dir, container)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("blob container %s: %w", container, err)
	}

	name := uuid.NewString() + "-" + filepath.Base(filename)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("blob create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("blob write %s: %w", name, err)
	}
	return name, nil
}
