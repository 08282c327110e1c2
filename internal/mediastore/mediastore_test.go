package mediastore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes is a minimal payload carrying the PNG magic number.
func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
}

func gifBytes() []byte {
	return append([]byte("GIF89a"), make([]byte, 32)...)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "/storage", 1<<20)
	require.NoError(t, err)
	return s
}

func TestStoreAndRead(t *testing.T) {
	s := newTestStore(t)

	ref, err := s.Store(pngBytes(), BucketProductMain)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, BucketProductMain+"/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.True(t, s.Exists(ref))

	data, err := s.Read(ref)
	require.NoError(t, err)
	assert.Equal(t, pngBytes(), data)
}

func TestStoreExtensionFollowsSniffedType(t *testing.T) {
	s := newTestStore(t)

	ref, err := s.Store(gifBytes(), BucketProductGallery)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".gif"))
}

func TestStoreRejectsUnsupportedType(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Store([]byte("%PDF-1.4 not an image"), BucketProductMain)
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected upload must not leave files behind")
}

func TestStoreRejectsOversizedPayload(t *testing.T) {
	s, err := NewStore(t.TempDir(), "/storage", 16)
	require.NoError(t, err)

	_, err = s.Store(pngBytes(), BucketProductMain)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestStoreGeneratesUniqueRefs(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Store(pngBytes(), BucketProductMain)
	require.NoError(t, err)
	b, err := s.Store(pngBytes(), BucketProductMain)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	ref, err := s.Store(pngBytes(), BucketServiceMain)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ref))
	assert.False(t, s.Exists(ref))

	assert.NoError(t, s.Delete(ref))
	assert.NoError(t, s.Delete(""))
	assert.NoError(t, s.Delete("servicios/principales/never-stored.png"))
}

func TestPublicURL(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "/storage/productos/principales/a.png", s.PublicURL("productos/principales/a.png"))
	assert.Equal(t, "", s.PublicURL(""))
}

func TestListBucket(t *testing.T) {
	s := newTestStore(t)

	refs, err := s.ListBucket(BucketProductGallery)
	require.NoError(t, err)
	assert.Empty(t, refs)

	a, err := s.Store(pngBytes(), BucketProductGallery)
	require.NoError(t, err)
	b, err := s.Store(gifBytes(), BucketProductGallery)
	require.NoError(t, err)

	refs, err = s.ListBucket(BucketProductGallery)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, refs)
}

func TestRefsStayInsideRoot(t *testing.T) {
	s := newTestStore(t)

	outside := filepath.Join(filepath.Dir(s.Root()), "escape.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	assert.False(t, s.Exists("../escape.txt"))
	assert.NoError(t, s.Delete("../escape.txt"))
	_, err := os.Stat(outside)
	assert.NoError(t, err, "file outside the root must be untouched")
}
