// Package storage persists uploaded poster images. DiskStore keeps files on
// the local filesystem and serves them from /uploads; other backends can
// plug in behind ImageStore.
package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ImageStore saves an uploaded image payload and returns its public URL.
type ImageStore interface {
	// SaveImage decodes a base64 payload (optionally a data: URL) and
	// stores it under a name derived from the order id.
	SaveImage(orderID, data string) (string, error)
}

// DiskStore writes images below a root directory mounted at /uploads.
type DiskStore struct {
	root string
}

// NewDiskStore creates root if needed and returns a DiskStore over it.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Root returns the directory images are written to.
func (d *DiskStore) Root() string { return d.root }

// SaveImage stores the decoded payload as <orderID>-<unix ms>.<ext> and
// returns the public path. The extension comes from the data-URL media type,
// defaulting to jpg.
func (d *DiskStore) SaveImage(orderID, data string) (string, error) {
	ext := "jpg"
	if strings.HasPrefix(data, "data:") {
		semi := strings.Index(data, ";base64,")
		if semi < 0 {
			return "", fmt.Errorf("image payload is not base64 encoded")
		}
		mediaType := data[len("data:"):semi]
		if slash := strings.Index(mediaType, "/"); slash >= 0 {
			ext = mediaType[slash+1:]
		}
		data = data[semi+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("decode image payload: %w", err)
	}

	name := fmt.Sprintf("%s-%d.%s", orderID, time.Now().UnixMilli(), ext)
	if err := os.WriteFile(filepath.Join(d.root, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return "/uploads/" + name, nil
}
