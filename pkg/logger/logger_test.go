package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_LevelParsing(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "trace", level: "trace", want: zerolog.TraceLevel},
		{name: "debug", level: "debug", want: zerolog.DebugLevel},
		{name: "info", level: "info", want: zerolog.InfoLevel},
		{name: "warn", level: "warn", want: zerolog.WarnLevel},
		{name: "error", level: "error", want: zerolog.ErrorLevel},
		{name: "fatal", level: "fatal", want: zerolog.FatalLevel},
		{name: "unknown defaults to info", level: "verbose", want: zerolog.InfoLevel},
		{name: "empty defaults to info", level: "", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(Config{Level: tt.level})
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestNew_LevelIsPerLogger(t *testing.T) {
	quiet := New(Config{Level: "error"})
	verbose := New(Config{Level: "debug"})

	// Constructing one logger must not change another's level.
	assert.Equal(t, zerolog.ErrorLevel, quiet.GetLevel())
	assert.Equal(t, zerolog.DebugLevel, verbose.GetLevel())
}
