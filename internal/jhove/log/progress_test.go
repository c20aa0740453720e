package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgress_FileDone_SeverityTracksWellFormed(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, DebugLevel)

	p.FileDone("a.tif", "TIFF-hul", "true", "true")
	require.Contains(t, buf.String(), "[INFO]")

	buf.Reset()
	p.FileDone("b.tif", "TIFF-hul", "false", "false")
	require.Contains(t, buf.String(), "[WARN]")

	buf.Reset()
	p.FileDone("c.tif", "TIFF-hul", "undetermined", "undetermined")
	require.Contains(t, buf.String(), "[ERROR]")

	buf.Reset()
	p.FileDone("d.bin", "", "", "")
	require.Contains(t, buf.String(), "[INFO]")
	require.Contains(t, buf.String(), "no module recognized")
}

func TestProgress_SuppressesBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, WarnLevel)

	p.Debugf("hidden")
	p.Infof("also hidden")
	require.Empty(t, buf.String())

	p.Warnf("visible")
	require.Contains(t, buf.String(), "[WARN] visible")
}

func TestProgress_NilReceiverIsSafe(t *testing.T) {
	var p *Progress
	p.FileDone("a.tif", "TIFF-hul", "true", "true")
	p.Debugf("noop")
}
