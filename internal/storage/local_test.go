package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundtrip(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root)
	require.NoError(t, err)

	ref, err := s.Store(context.Background(), []byte("fake-jpeg"), "image/jpeg", "finish-line.jpg", "originals")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/originals/"))
	assert.True(t, strings.HasSuffix(ref, "-finish-line.jpg"))

	// The reference maps back onto a file under the root.
	rel := strings.TrimPrefix(ref, "/uploads/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg", string(data))

	require.NoError(t, s.Remove(context.Background(), ref))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStoreRemoveAbsent(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	// Removing something already gone is a no-op.
	assert.NoError(t, s.Remove(context.Background(), "/uploads/originals/123-gone.jpg"))

	// A reference not issued by this store is rejected.
	assert.Error(t, s.Remove(context.Background(), "http://elsewhere/bucket/key"))
}

func TestLocalStoreCollisionResistance(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	refs := map[string]bool{}
	for i := 0; i < 10; i++ {
		ref, err := s.Store(ctx, []byte("x"), "image/png", "same-name.png", "photos")
		require.NoError(t, err)
		assert.False(t, refs[ref], "reference %q issued twice", ref)
		refs[ref] = true
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "photo.jpg", sanitizeFilename("photo.jpg"))
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "upload", sanitizeFilename(""))
	assert.Equal(t, "upload", sanitizeFilename(".."))
	assert.Equal(t, "b.png", sanitizeFilename("a/b.png"))
}

func TestNewPicksBackend(t *testing.T) {
	st, err := New(BackendLocal, t.TempDir(), ObjectConfig{})
	require.NoError(t, err)
	_, ok := st.(*LocalStore)
	assert.True(t, ok)

	_, err = New(Backend("TAPE"), "", ObjectConfig{})
	assert.Error(t, err)
}
