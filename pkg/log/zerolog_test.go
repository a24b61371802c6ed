package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologAdapter_FieldsAndWith(t *testing.T) {
	var buf bytes.Buffer
	zl, err := NewZerolog(&buf, "json", "debug")
	require.NoError(t, err)

	logger := NewZerologAdapterWithLogger(zl).With(String("run_id", "r-1"))
	logger.Info("uploaded batch",
		Int("names", 3),
		Strings("sample", []string{"a", "b"}),
		Duration("took", 2*time.Second),
		Err(errors.New("boom")),
	)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "uploaded batch", line["message"])
	assert.Equal(t, "r-1", line["run_id"])
	assert.EqualValues(t, 3, line["names"])
	assert.Equal(t, []any{"a", "b"}, line["sample"])
	assert.Equal(t, "boom", line["error"])
}

func TestNewZerolog_Level(t *testing.T) {
	var buf bytes.Buffer
	zl, err := NewZerolog(&buf, "json", "warn")
	require.NoError(t, err)

	logger := NewZerologAdapterWithLogger(zl)
	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewZerolog_Invalid(t *testing.T) {
	_, err := NewZerolog(&bytes.Buffer{}, "xml", "info")
	assert.Error(t, err)

	_, err = NewZerolog(&bytes.Buffer{}, "json", "loud")
	assert.Error(t, err)
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l = l.With(String("k", "v"))
	l.Info("ignored")
	assert.NotNil(t, l)
}
