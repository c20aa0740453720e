package epub

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

func TestParse_NoValidatorConfiguredIsUndetermined(t *testing.T) {
	info := repinfo.New("sample.epub")
	m := New()

	next, err := m.Parse(strings.NewReader("PK\x03\x04"), info, 0, module.Options{})
	require.NoError(t, err)
	require.Equal(t, 0, next)
	require.Equal(t, repinfo.Undetermined, info.WellFormed)
	require.Equal(t, repinfo.Undetermined, info.Valid)
	require.NotEmpty(t, info.Messages)
	require.Equal(t, "EPUB-1", info.Messages[0].ID)
}

func TestCheckSignatures_SetsFormatAndMIMEType(t *testing.T) {
	info := repinfo.New("sample.epub")
	m := New()

	require.NoError(t, m.CheckSignatures("EPUB-ptc", strings.NewReader("PK\x03\x04"), info))
	require.Equal(t, "EPUB", info.Format)
	require.Equal(t, epubMediaType, info.MIMEType)
}

func TestParse_MissingValidatorBinaryReportsError(t *testing.T) {
	info := repinfo.New("sample.epub")
	m := New()

	next, err := m.Parse(strings.NewReader("PK\x03\x04"), info, 0, module.Options{
		Parameters: "/nonexistent/epubcheck-binary-for-tests",
	})
	require.NoError(t, err)
	require.Equal(t, 0, next)
	require.Equal(t, repinfo.False, info.WellFormed)
	require.NotEmpty(t, info.Messages)
	require.Equal(t, "EPUB-2", info.Messages[len(info.Messages)-1].ID)
}
