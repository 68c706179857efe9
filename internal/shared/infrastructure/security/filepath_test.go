package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := ValidateFilePath("")
		assert.ErrorContains(t, err, "cannot be empty")
	})

	t.Run("rejects shell metacharacters", func(t *testing.T) {
		for _, char := range forbiddenChars {
			_, err := ValidateFilePath("/tmp/dailyease" + string(char) + ".db")
			assert.ErrorContains(t, err, "forbidden character", "character %q", char)
		}
	})

	t.Run("resolves existing files", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "dailyease.db")
		require.NoError(t, os.WriteFile(file, nil, 0o600))

		got, err := ValidateFilePath(file)
		require.NoError(t, err)
		want, _ := filepath.EvalSymlinks(file)
		assert.Equal(t, want, got)
	})

	t.Run("cleans missing files", func(t *testing.T) {
		dir := t.TempDir()
		got, err := ValidateFilePath(dir + "/data/../dailyease.db")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "dailyease.db"), got)
	})

	t.Run("makes relative paths absolute", func(t *testing.T) {
		got, err := ValidateFilePath("dailyease.db")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})
}
