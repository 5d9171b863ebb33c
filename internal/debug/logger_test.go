package debug_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/satishbabariya/hdbwrap/internal/debug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { debug.Init(false) })

	t.Run("disabled discards", func(t *testing.T) {
		var buf bytes.Buffer
		debug.Configure(&buf, false, debug.FormatText)
		debug.Debug("hidden")
		debug.Error("hidden too")
		assert.False(t, debug.Enabled())
		assert.Empty(t, buf.String())
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		debug.Configure(&buf, true, debug.FormatText)
		debug.With("table", "USERS").Debug("select")
		assert.True(t, debug.Enabled())
		assert.Contains(t, buf.String(), "msg=select")
		assert.Contains(t, buf.String(), "table=USERS")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		debug.Configure(&buf, true, debug.FormatJSON)
		debug.Info("commit", "pending", 2)

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "commit", rec["msg"])
		assert.Equal(t, float64(2), rec["pending"])
	})
}
