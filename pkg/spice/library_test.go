package spice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/errors"
)

func writeLib(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseLibrary(t *testing.T) {
	input := `* TL072 macro model
.SUBCKT TL072 1 2 3 4 5
+ params: gain=1
R1 1 2 10k ; feedback
C1 2 3 "10p"
.ENDS TL072

.model D1N4148 D(Is=2.52n Rs=0.568) $ small signal
.include "models/common.lib"
`

	lib, err := ParseLibrary(strings.NewReader(input))
	require.NoError(t, err)

	subckts := lib.Directives("SUBCKT")
	require.Len(t, subckts, 1)
	assert.Equal(t, []string{"TL072", "1", "2", "3", "4", "5", "params:", "gain=1"}, subckts[0].Args)
	assert.Equal(t, 2, subckts[0].Pos.Line)

	assert.True(t, lib.Declares("subckt", "TL072"))
	assert.False(t, lib.Declares("subckt", "tl072"))
	assert.True(t, lib.Declares("model", "D1N4148"))
	assert.False(t, lib.Declares("subckt", "D1N4148"))

	inc := lib.Directives("include")
	require.Len(t, inc, 1)
	path, ok := inc[0].Arg(0)
	require.True(t, ok)
	assert.Equal(t, "models/common.lib", path)
	_, ok = inc[0].Arg(1)
	assert.False(t, ok)

	cards := lib.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, []string{"R1", "1", "2", "10k"}, cards[0].Words)
	assert.Equal(t, "C1", cards[1].Name())
}

func TestParseLibraryFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLib(t, dir, "bjt.lib", ".model 2N3904 NPN(Is=6.734f Bf=416.4)\n")

	lib, err := ParseLibraryFile(path)
	require.NoError(t, err)
	assert.True(t, lib.Declares("model", "2N3904"))

	_, err = ParseLibraryFile(filepath.Join(dir, "missing.lib"))
	assert.Error(t, err)
}

func TestParseCardsSkipsControl(t *testing.T) {
	text := `.title test
R1 1 0 1k
.control
tran 1u 1m
write out.raw v(1)
.endc
.end
`
	cards, err := ParseCards(text)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "R1", cards[0].Name())
}

func TestResolverOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	// Both files declare OPAMP; a.lib sorts first
	a := writeLib(t, first, "a.lib", ".model OPAMP OPA()\n")
	writeLib(t, first, "b.lib", ".subckt OPAMP 1 2 3\n.ends\n")
	require.NoError(t, os.Mkdir(filepath.Join(first, "0models"), 0o755))
	other := writeLib(t, second, "c.lib", ".subckt OTHER 1\n.include /abs/path.lib\n.include sub/dir.lib\n.include c.lib\n.ends\n")

	r := NewResolver([]string{first, second})
	assert.Equal(t, []string{first, second}, r.Paths())

	paths, err := r.Resolve("OPAMP")
	require.NoError(t, err)
	assert.Equal(t, []string{a}, paths)

	paths, err = r.Resolve("OTHER")
	require.NoError(t, err)
	assert.Equal(t, []string{other, "/abs/path.lib", "sub/dir.lib"}, paths)
}

func TestResolverNotFound(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "a.lib", ".subckt LM358 1 2 3\n.ends\n")

	_, err := NewResolver([]string{dir}).Resolve("TL072")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSpiceModelNotFound))
	assert.Equal(t, "TL072", errors.Subject(err))

	_, err = NewResolver([]string{filepath.Join(dir, "missing")}).Resolve("TL072")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSpiceModelNotFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
