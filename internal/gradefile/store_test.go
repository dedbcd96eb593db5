package gradefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "gradebooks"))
	require.NoError(t, err)
	return store
}

func TestFileStore_CreateConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Create(ctx, "starters", "1,2,3\n0,0", false))

	err := store.Create(ctx, "starters.csv", "a,b\n1,1", false)
	require.ErrorIs(t, err, common.ErrConflict)

	text, err := store.ReadText(ctx, "starters")
	require.NoError(t, err)
	assert.Equal(t, "1,2,3\n0,0", text, "refused overwrite must leave the file untouched")

	require.NoError(t, store.Create(ctx, "starters", "a,b\n1,1", true))
	text, err = store.ReadText(ctx, "starters")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,1", text)
}

func TestFileStore_WriteAndRead(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tierList, err := model.PresetScale(model.PresetTierList)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, "mine", Encode(tierList, []int{6, 0, 1})))

	book, err := store.Read(ctx, "mine")
	require.NoError(t, err)
	assert.True(t, book.Scale.Equal(tierList))
	assert.Equal(t, []int{6, 0, 1}, book.Grades)

	path, err := store.Path("mine")
	require.NoError(t, err)
	assert.FileExists(t, path)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestFileStore_ReadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFileStore_List(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.Write(ctx, name, "1,2\n0"))
	}
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), "dir.csv"), 0750))

	names, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "default", want: "default"},
		{name: "extension stripped", input: "default.csv", want: "default"},
		{name: "trimmed", input: "  mine ", want: "mine"},
		{name: "empty", input: " ", wantErr: true},
		{name: "path separator", input: "../etc/passwd", wantErr: true},
		{name: "dot dot", input: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileStore_WriteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newTestStore(t)
	assert.ErrorIs(t, store.Write(ctx, "x", "1"), context.Canceled)
}
