package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// build nunca devuelve nil, sin importar la config.
func TestBuild_NeverNil(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Env: "prod", Level: "error", Version: "1.2.3"},
		{Env: "dev", Level: "debug", ServiceName: "clinicia"},
	} {
		if build(cfg) == nil {
			t.Fatalf("build(%+v) = nil", cfg)
		}
	}
}
