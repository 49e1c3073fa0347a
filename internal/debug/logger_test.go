package debug

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriter(t *testing.T) {
	t.Cleanup(func() { Init(false) })
	var buf bytes.Buffer

	InitWriter(false, &buf)
	assert.False(t, Enabled())
	Debug("hidden")
	Warn("hidden too")
	Error("shown", "table", "C_Order")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "table=C_Order")

	buf.Reset()
	InitWriter(true, &buf)
	assert.True(t, Enabled())
	Debug("query", "sql", "SELECT 1")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `sql="SELECT 1"`)
}

func TestInitWriter_JSON(t *testing.T) {
	t.Setenv("DICTQUERY_LOG_FORMAT", "json")
	t.Cleanup(func() { Init(false) })
	var buf bytes.Buffer

	InitWriter(true, &buf)
	Info("dictionary reloaded", "tables", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dictionary reloaded", entry["msg"])
	assert.Equal(t, float64(3), entry["tables"])
}
