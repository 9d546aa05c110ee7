package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogtb/cellsheet/packages/config"
)

func runApp(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(strings.NewReader(input), &out, &bytes.Buffer{})
	err := app.Run(append([]string{"sheet", "--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	return out.String(), err
}

func TestEval(t *testing.T) {
	out, err := runApp(t, "", "eval", "15/3*5+1/13")
	require.NoError(t, err)
	assert.Equal(t, "25.076923076923077\n", out)

	out, err = runApp(t, "", "eval", "--postfix", "--tree", "--var", "x=4", "--var", "y = 2", "(1+x)*y")
	require.NoError(t, err)
	assert.Equal(t, "1 x + y *\n((1+x)*y)\n10\n", out)

	out, err = runApp(t, "", "eval", "1/0")
	require.NoError(t, err)
	assert.Equal(t, "+Inf\n", out)

	_, err = runApp(t, "", "eval", "(A)")
	assert.Error(t, err)
	_, err = runApp(t, "", "eval", "(1+2")
	assert.Error(t, err)
	_, err = runApp(t, "", "eval", "--var", "novalue", "1")
	assert.Error(t, err)
	_, err = runApp(t, "", "eval")
	assert.Error(t, err)
}

func TestCalc(t *testing.T) {
	input := strings.Join([]string{
		"3", // nothing set yet
		"2", "A1", "1",
		"2", "B1", "2",
		"2", "C1", "x", // unparsable counts as zero
		"3",
		"1", "(2+3)*4",
		"3",
		"1", "(1",
		"3",
		"4",
		"3", // never read
	}, "\n")

	out, err := runApp(t, input, "calc")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], `"A1"`)
	assert.Equal(t, "3", lines[1])
	assert.Equal(t, "20", lines[2])
	assert.Contains(t, lines[3], "unmatched")
	assert.Contains(t, lines[4], "unmatched")
}

func TestRepl(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "sheet.xml")
	cborPath := filepath.Join(dir, "sheet.cbor")

	input := strings.Join([]string{
		"set A1 4",
		"set B1 =A1 * 2",
		"get B1",
		"set A1 =B1",
		"deps A1",
		"color 0xFF0000FF A1 B1",
		"undo",
		"set C1 note",
		"show",
		"save " + xmlPath,
		"save " + cborPath,
		"bogus",
		"quit",
		"get A1",
	}, "\n")

	out, err := runApp(t, input, "repl")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"8",
		"error: !(circular reference)",
		"precedents: ",
		"dependents: B1",
		"undo background color change",
		"A1\t4\t4",
		"B1\t=A1 * 2\t8",
		"C1\tnote\tnote",
		`error: unknown command "bogus"`,
	}, "\n")+"\n", out)

	for _, path := range []string{xmlPath, cborPath} {
		out, err = runApp(t, "", "show", path)
		require.NoError(t, err, path)
		assert.Equal(t, "A1\t4\t4\nB1\t=A1 * 2\t8\nC1\tnote\tnote\n", out, path)
	}

	out, err = runApp(t, "set A1 10\nget B1\nundo\nundo\nredo\nredo\n", "repl", "--load", xmlPath, "--watch")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"A1 = 10",
		"B1 = 20",
		"20",
		"undo text change",
		"A1 = 4",
		"B1 = 8",
		"error: nothing to undo",
		"redo text change",
		"A1 = 10",
		"B1 = 20",
		"error: nothing to redo",
	}, "\n")+"\n", out)
}

func TestShowMissingFile(t *testing.T) {
	_, err := runApp(t, "", "show", filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
	_, err = runApp(t, "", "show")
	assert.Error(t, err)
}

func TestConfigSizesGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("[grid]\nrows = 2\ncolumns = 2\n"), 0o644))

	var out bytes.Buffer
	app := newApp(strings.NewReader("set B2 x\nset C1 y\nset A3 z\nshow\n"), &out, &bytes.Buffer{})
	require.NoError(t, app.Run([]string{"sheet", "--config", path, "repl"}))
	assert.Equal(t, "error: no cell named \"C1\"\nerror: no cell named \"A3\"\nB2\tx\tx\n", out.String())

	app = newApp(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	bad := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(bad, []byte("[grid]\ncolumns = 40\n"), 0o644))
	assert.Error(t, app.Run([]string{"sheet", "--config", bad, "repl"}))
}
