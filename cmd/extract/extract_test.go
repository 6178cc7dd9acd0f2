package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPages_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.txt")
	require.NoError(t, os.WriteFile(path, []byte("page one text\fpage two text\f"), 0o600))

	pages, err := loadPages(path)

	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "page one text", pages[0])
	assert.Equal(t, "page two text", pages[1])
}

func TestLoadPages_FileWithoutFormFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.txt")
	require.NoError(t, os.WriteFile(path, []byte("just one page"), 0o600))

	pages, err := loadPages(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"just one page"}, pages)
}

func TestLoadPages_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page_2.txt"), []byte("second"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page_1.txt"), []byte("first"), 0o600))

	pages, err := loadPages(dir)

	require.NoError(t, err)
	// Directory entries come back in name order.
	assert.Equal(t, []string{"first", "second"}, pages)
}

func TestLoadPages_EmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\f\f  \f"), 0o600))

	_, err := loadPages(path)

	assert.Error(t, err)
}

func TestLoadPages_MissingFile(t *testing.T) {
	_, err := loadPages(filepath.Join(t.TempDir(), "nope.txt"))

	assert.Error(t, err)
}
