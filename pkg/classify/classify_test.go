package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/syncrc/pkg/tool"
)

func TestPosixClassify(t *testing.T) {
	c := New(tool.KindPosixSync)

	t.Run("progress_line_is_parsed_and_suppressed", func(t *testing.T) {
		line := c.Classify("1,000,000 2,000,000 10.00MB/s  42%  0:00:05")
		require.Equal(t, KindProgress, line.Kind)
		assert.Equal(t, 42, line.Percent)
		assert.Empty(t, line.Text, "progress lines must never surface as log text")
	})

	t.Run("typical_rsync_progress2_line", func(t *testing.T) {
		line := c.Classify("  1,234,567  73%   11.23MB/s    0:00:03")
		require.Equal(t, KindProgress, line.Kind)
		assert.Equal(t, 73, line.Percent)
	})

	t.Run("missing_rate_marker_becomes_log", func(t *testing.T) {
		line := c.Classify("1,000,000 2,000,000  42%  0:00:05")
		require.Equal(t, KindLog, line.Kind)
		assert.Equal(t, "1,000,000 2,000,000  42%  0:00:05", line.Text)
	})

	t.Run("missing_percent_marker_becomes_log", func(t *testing.T) {
		line := c.Classify("1,000,000 10.00MB/s 0:00:05")
		assert.Equal(t, KindLog, line.Kind)
	})

	t.Run("missing_duration_marker_becomes_log", func(t *testing.T) {
		line := c.Classify("1,000,000 10.00MB/s 42%")
		assert.Equal(t, KindLog, line.Kind)
	})

	t.Run("out_of_range_percent_is_dropped", func(t *testing.T) {
		line := c.Classify("1,000,000 10.00MB/s  250%  0:00:05")
		assert.Equal(t, KindDrop, line.Kind)
	})

	t.Run("blank_lines_are_dropped", func(t *testing.T) {
		assert.Equal(t, KindDrop, c.Classify("").Kind)
		assert.Equal(t, KindDrop, c.Classify("   \t").Kind)
	})

	t.Run("ordinary_output_becomes_trimmed_log", func(t *testing.T) {
		line := c.Classify("sending incremental file list   ")
		require.Equal(t, KindLog, line.Kind)
		assert.Equal(t, "sending incremental file list", line.Text)
	})

	t.Run("percent_bounds_hold_for_parsed_lines", func(t *testing.T) {
		for _, raw := range []string{
			"0 1 1.00kB/s  0%  0:00:00",
			"9 9 9.99GB/s  100%  1:23:45",
			"5 5 5.00MB/s  50%  0:10",
		} {
			line := c.Classify(raw)
			require.Equal(t, KindProgress, line.Kind, "line %q", raw)
			assert.GreaterOrEqual(t, line.Percent, 0)
			assert.LessOrEqual(t, line.Percent, 100)
		}
	})
}

func TestWindowsClassify(t *testing.T) {
	c := New(tool.KindWindowsCopy)

	t.Run("no_progress_events_on_this_branch", func(t *testing.T) {
		line := c.Classify("1,000,000 2,000,000 10.00MB/s  42%  0:00:05")
		assert.Equal(t, KindLog, line.Kind)
	})

	t.Run("banner_lines_are_dropped", func(t *testing.T) {
		assert.Equal(t, KindDrop, c.Classify("   ROBOCOPY     ::     Robust File Copy for Windows").Kind)
		assert.Equal(t, KindDrop, c.Classify("-------------------------------------------------------------------------------").Kind)
	})

	t.Run("blank_lines_are_dropped", func(t *testing.T) {
		assert.Equal(t, KindDrop, c.Classify("").Kind)
		assert.Equal(t, KindDrop, c.Classify("  \t ").Kind)
	})

	t.Run("file_lines_surface_verbatim", func(t *testing.T) {
		line := c.Classify("\t    New File  \t     1024\tdocs\\readme.txt  ")
		require.Equal(t, KindLog, line.Kind)
		assert.Equal(t, "\t    New File  \t     1024\tdocs\\readme.txt", line.Text)
	})
}
