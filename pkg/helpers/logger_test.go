package helpers

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_ByEnv(t *testing.T) {
	var buf bytes.Buffer
	dev := newLogger(&buf, "scheduler", "development")
	assert.Equal(t, logrus.DebugLevel, dev.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)

	buf.Reset()
	prod := newLogger(&buf, "scheduler", "production")
	assert.Equal(t, logrus.InfoLevel, prod.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)
	assert.Contains(t, buf.String(), `"app":"scheduler"`)
}

func TestLogError_AddsErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "scheduler", "production")
	buf.Reset()

	LogError(l, "sync failed", assert.AnError, logrus.Fields{"user_id": "u1"})
	assert.Contains(t, buf.String(), `"error":"`+assert.AnError.Error()+`"`)
	assert.Contains(t, buf.String(), `"user_id":"u1"`)
}
