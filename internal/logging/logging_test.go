package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	var buf bytes.Buffer
	if err := Setup("info", &buf); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Debug().Msg("hidden")
	log.Info().Str("depth", "3").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}

	if err := Setup("loud", &buf); err == nil {
		t.Error("Setup accepted an unknown level")
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("GIGI_TEST_DEPTH", "7")
	t.Setenv("GIGI_TEST_BAD", "seven")

	tests := []struct {
		key  string
		want int
	}{
		{"GIGI_TEST_DEPTH", 7},
		{"GIGI_TEST_BAD", 3},
		{"GIGI_TEST_UNSET", 3},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if got := EnvInt(tc.key, 3); got != tc.want {
				t.Errorf("EnvInt(%s) = %d, want %d", tc.key, got, tc.want)
			}
		})
	}

	if got := Env("GIGI_TEST_UNSET", "x"); got != "x" {
		t.Errorf("Env = %q, want x", got)
	}
}
