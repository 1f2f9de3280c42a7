package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamoodiM/TitanInfer/internal/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logging.Level{
		"debug":   logging.Debug,
		"INFO":    logging.Info,
		"warning": logging.Warning,
		"warn":    logging.Warning,
		"Error":   logging.Error,
		"SILENT":  logging.Silent,
	}
	for s, want := range cases {
		got, err := logging.ParseLevel(s)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	_, err := logging.ParseLevel("verbose")
	require.Error(t, err)
}

func TestSetLevelFiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	logging.SetSink(&buf)
	logging.SetLevel(logging.Warning)
	defer logging.SetLevel(logging.Info)

	logging.Infof("this should not appear")
	require.Empty(t, buf.String())

	logging.Warnf("this should appear")
	require.Contains(t, buf.String(), "this should appear")
	require.Contains(t, buf.String(), "[WARNING]")
}

func TestSilentSuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	logging.SetSink(&buf)
	logging.SetLevel(logging.Silent)
	defer logging.SetLevel(logging.Info)

	logging.Errorf("should be swallowed")
	require.Empty(t, buf.String())
}
