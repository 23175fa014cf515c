package observability

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for value, want := range cases {
		t.Setenv("LOG_LEVEL", value)
		require.Equal(t, want, logLevel(), "LOG_LEVEL=%q", value)
	}
}

func TestInstrumentsNilProvidersFallBack(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("internal.catalog.application"))
	require.NotNil(t, instruments.Meter("internal.catalog.application"))

	empty := &Instruments{}
	require.NotNil(t, empty.Tracer("internal.orders.application"))
	require.NotNil(t, empty.Meter("internal.orders.application"))
}
