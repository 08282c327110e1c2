// Package mediastore is a bucketed filesystem blob store for uploaded
// images. Path references are opaque "bucket/name.ext" strings resolvable
// against the store root; reference generation is the store's job so that
// concurrently-created resources can never collide.
package mediastore

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/emprendia/emprendia/pkg/common"
)

// Buckets used by the marketplace. Purely organizational; no cross-bucket
// invariants.
const (
	BucketProductMain    = "productos/principales"
	BucketProductGallery = "productos/galeria"
	BucketServiceMain    = "servicios/principales"
	BucketServiceGallery = "servicios/galeria"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("file exceeds the size limit")
)

// allowedTypes maps accepted detected MIME types to their file extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Store is a filesystem-backed media store.
type Store struct {
	root     string
	baseURL  string
	maxBytes int64
}

func NewStore(root, baseURL string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "create media root")
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

// Store validates and writes data into bucket, returning the new path
// reference. The declared MIME type is ignored in favor of sniffing the
// actual bytes.
func (s *Store) Store(data []byte, bucket string) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", ErrPayloadTooLarge
	}
	mtype := mimetype.Detect(data)
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return "", ErrUnsupportedMediaType
	}

	ref := path.Join(bucket, common.UUID()+ext)
	full := s.fullPath(ref)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", errors.Wrap(err, "create bucket dir")
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "write media file %s", ref)
	}
	return ref, nil
}

// Exists reports whether ref resolves to a stored file. Absence is a normal
// case and never an error.
func (s *Store) Exists(ref string) bool {
	if ref == "" {
		return false
	}
	info, err := os.Stat(s.fullPath(ref))
	return err == nil && !info.IsDir()
}

// Delete removes the file behind ref. Deleting a missing reference is a
// no-op.
func (s *Store) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(s.fullPath(ref))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete media file %s", ref)
	}
	return nil
}

// Read returns the stored bytes behind ref.
func (s *Store) Read(ref string) ([]byte, error) {
	data, err := os.ReadFile(s.fullPath(ref))
	if err != nil {
		return nil, errors.Wrapf(err, "read media file %s", ref)
	}
	return data, nil
}

// PublicURL resolves a path reference against the configured base URL.
func (s *Store) PublicURL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.baseURL + "/" + ref
}

// Root returns the store's filesystem root.
func (s *Store) Root() string {
	return s.root
}

// ListBucket returns the path references currently stored under bucket.
// Used by the purge job's orphan sweep.
func (s *Store) ListBucket(bucket string) ([]string, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(bucket))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "list bucket %s", bucket)
	}
	refs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		refs = append(refs, path.Join(bucket, e.Name()))
	}
	return refs, nil
}

// ModTime returns the stored file's modification time via os.Stat.
func (s *Store) Stat(ref string) (os.FileInfo, error) {
	return os.Stat(s.fullPath(ref))
}

func (s *Store) fullPath(ref string) string {
	// Keep references inside the root even if a stored ref was tampered
	// with out of band.
	clean := filepath.FromSlash(path.Clean("/" + ref))
	return filepath.Join(s.root, clean)
}
