package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLogsAreJSONWithServiceFields(t *testing.T) {
	l := New("yatube", ProdEnv, "debug")
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.WithField("key", "value").Info("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "yatube", line["service"])
	assert.Equal(t, ProdEnv, line["env"])
	assert.Equal(t, "value", line["key"])
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	l := New("yatube", "development", "chatty")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}
