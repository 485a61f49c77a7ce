package guard

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRecursive(t *testing.T) {
	t.Run("destination_inside_source_is_dangerous", func(t *testing.T) {
		assert.True(t, CheckRecursive("/a/b", "/a/b/c"))
	})

	t.Run("source_inside_destination_is_dangerous", func(t *testing.T) {
		assert.True(t, CheckRecursive("/a/b/c", "/a/b"))
	})

	t.Run("siblings_are_safe", func(t *testing.T) {
		assert.False(t, CheckRecursive("/a/b", "/a/c"))
	})

	t.Run("identical_paths_are_not_flagged", func(t *testing.T) {
		assert.False(t, CheckRecursive("/a/b", "/a/b"))
	})

	t.Run("prefix_match_is_separator_bounded", func(t *testing.T) {
		// "/a/bc" merely shares a string prefix with "/a/b".
		assert.False(t, CheckRecursive("/a/b", "/a/bc"))
		assert.False(t, CheckRecursive("/a/bc", "/a/b"))
	})

	t.Run("relative_segments_are_normalized", func(t *testing.T) {
		assert.True(t, CheckRecursive("/a/b", "/a/b/c/../c/d"))
		assert.False(t, CheckRecursive("/a/b/c/..", "/a/b"))
	})

	t.Run("deep_descendant_is_dangerous", func(t *testing.T) {
		assert.True(t, CheckRecursive("/a", "/a/b/c/d/e"))
	})
}

func TestCheckRecursiveSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}

	t.Run("symlink_into_source_is_dangerous", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))

		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink(filepath.Join(src, "sub"), link))

		assert.True(t, CheckRecursive(src, link))
	})

	t.Run("symlink_to_sibling_is_safe", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		other := filepath.Join(dir, "other")
		require.NoError(t, os.MkdirAll(src, 0755))
		require.NoError(t, os.MkdirAll(other, 0755))

		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink(other, link))

		assert.False(t, CheckRecursive(src, link))
	})
}
