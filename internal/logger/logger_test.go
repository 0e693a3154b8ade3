package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"chatty":  zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestSetLevelAffectsSingleton(t *testing.T) {
	l := L()
	defer SetLevel("info")

	SetLevel("error")
	assert.Equal(t, "error", Level())
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))

	SetLevel("debug")
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext(t *testing.T) {
	assert.Same(t, L(), From(context.Background()))

	scoped := zap.NewNop()
	ctx := ToContext(context.Background(), scoped)
	assert.Same(t, scoped, From(ctx))
}
