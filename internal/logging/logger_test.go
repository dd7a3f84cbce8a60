package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"burningbros/internal/config"
	"burningbros/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSONWithDefaultFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput(&config.Config{LogLevel: "debug", LogFormat: "json", Environment: "test"}, &buf)

	logger.WithField("key", "products_page:1_per_page:10").Debug("GET KEY")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET KEY", line["msg"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "burningbros", line["service"])
	assert.Equal(t, "test", line["environment"])
	assert.Equal(t, "products_page:1_per_page:10", line["key"])
}

func TestNewWithOutput_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput(&config.Config{LogLevel: "chatty", LogFormat: "text"}, &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
