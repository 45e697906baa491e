package password

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicy_ZeroValueAcceptsAnything(t *testing.T) {
	ok, reasons := Policy{}.Validate("x")
	require.True(t, ok)
	require.Empty(t, reasons)
}

func TestPolicy_Reasons(t *testing.T) {
	p := Policy{MinLength: 10, RequireUpper: true, RequireLower: true, RequireDigit: true, RequireSymbol: true}

	ok, reasons := p.Validate("abc")
	require.False(t, ok)
	require.Equal(t, []string{ReasonTooShort, ReasonMissingUpper, ReasonMissingDigit, ReasonMissingSymbol}, reasons)

	ok, reasons = p.Validate("Viajes-2024!")
	require.True(t, ok, reasons)
}

func TestPolicy_MinLengthCountsRunes(t *testing.T) {
	p := Policy{MinLength: 4}
	ok, _ := p.Validate("ñandú")
	require.True(t, ok)
	ok, _ = p.Validate("ñañ")
	require.False(t, ok)
}

func TestPolicy_Blacklist(t *testing.T) {
	bl, err := ReadBlacklist(strings.NewReader("# comunes\nPassword123\n\n  qwertyuiop  \n"))
	require.NoError(t, err)
	require.Equal(t, 2, bl.Len())

	p := Policy{MinLength: 8, Blacklist: bl}
	ok, reasons := p.Validate("password123")
	require.False(t, ok)
	require.Equal(t, []string{ReasonBlacklisted}, reasons)

	ok, _ = p.Validate(" QWERTYUIOP ")
	require.False(t, ok)
	ok, _ = p.Validate("otra-cosa-larga")
	require.True(t, ok)
}

func TestLoadBlacklist(t *testing.T) {
	bl, err := LoadBlacklist("")
	require.NoError(t, err)
	require.Zero(t, bl.Len())

	var nilList *Blacklist
	require.False(t, nilList.Contains("anything"))

	path := filepath.Join(t.TempDir(), "common.txt")
	require.NoError(t, os.WriteFile(path, []byte("letmein\n#skip\n"), 0o600))
	bl, err = LoadBlacklist(path)
	require.NoError(t, err)
	require.True(t, bl.Contains("LetMeIn"))
	require.False(t, bl.Contains("#skip"))

	_, err = LoadBlacklist(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
