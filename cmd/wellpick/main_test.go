package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/vanderheijden86/wellpick/pkg/loader"
	"github.com/vanderheijden86/wellpick/pkg/tree"
	"github.com/vanderheijden86/wellpick/pkg/version"
)

// isolate keeps the user's config and environment out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(loader.DataEnvVar, "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...)) // never nil, so os.Args is ignored
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTreeCommand_Default(t *testing.T) {
	isolate(t)

	out, err := run(t, "tree")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "大庆油田\n├── 大庆油田一区块\n│   ├── 一井\n"), out)
	assert.Contains(t, out, "└── 大庆油田十区块\n    ├── 十三井\n")
	assert.True(t, strings.HasSuffix(out, "塔里木油田\n"), out)
}

func TestTreeCommand_Filter(t *testing.T) {
	isolate(t)

	out, err := run(t, "tree", "--filter", "五井")
	require.NoError(t, err)
	assert.Equal(t, "大庆油田\n└── 大庆油田二区块\n    └── 五井\n", out)
}

func TestTreeCommand_FilterMatchingInnerNodeKeepsSubtree(t *testing.T) {
	isolate(t)

	out, err := run(t, "tree", "--filter", "大庆油田五区块")
	require.NoError(t, err)
	assert.Equal(t, "大庆油田\n└── 大庆油田五区块\n    ├── 十井\n    ├── 十一井\n    └── 十二井\n", out)
}

func TestTreeCommand_NoMatch(t *testing.T) {
	isolate(t)

	out, err := run(t, "tree", "--filter", "一")
	require.NoError(t, err)
	assert.Equal(t, "no matching nodes\n", out)
}

func TestFlatCommand_Text(t *testing.T) {
	isolate(t)
	path := writeFile(t, "wells.yaml", "- name: A\n  children:\n    - name: B\n- name: C\n")

	out, err := run(t, "flat", "--data", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "NAME")
	assert.Equal(t, "1    0     +   A", lines[1])
	assert.Equal(t, "2    1     -     B", lines[2])
	assert.Equal(t, "3    0     -   C", lines[3])
}

func TestFlatCommand_JSON(t *testing.T) {
	isolate(t)
	path := writeFile(t, "wells.json", `[{"name":"A","children":[{"name":"B"},{"name":"C"}]}]`)

	out, err := run(t, "flat", "--data", path, "--filter", "c", "--json")
	require.NoError(t, err)

	var nodes []tree.FlatNode
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, tree.FlatNode{ID: 1, Name: "A", Depth: 0, Expandable: true}, nodes[0])
	assert.Equal(t, tree.FlatNode{ID: 3, Name: "C", Depth: 1, Expandable: false}, nodes[1])
}

func TestDataFromEnvAndConfig(t *testing.T) {
	isolate(t)
	envData := writeFile(t, "env.yaml", "- name: FromEnv\n")
	cfgData := writeFile(t, "cfg.yaml", "- name: FromConfig\n")
	cfgPath := writeFile(t, "config.yaml", "dataset: "+cfgData+"\n")

	out, err := run(t, "tree", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "FromConfig\n", out)

	t.Setenv(loader.DataEnvVar, envData)
	out, err = run(t, "tree", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "FromEnv\n", out)
}

func TestInvalidDataset(t *testing.T) {
	isolate(t)
	path := writeFile(t, "wells.yaml", "- name: A\n  children:\n    - name: ''\n")

	_, err := run(t, "tree", "--data", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrEmptyName)

	_, err = run(t, "flat", "--data", writeFile(t, "wells.csv", "A"))
	assert.ErrorIs(t, err, loader.ErrUnsupportedFormat)
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version.Version)

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
}

func TestRootRequiresTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd())) {
		t.Skip("running in a terminal")
	}
	isolate(t)

	_, err := run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestRejectsArguments(t *testing.T) {
	isolate(t)

	_, err := run(t, "tree", "extra")
	assert.Error(t, err)
}

func TestPrintSelection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSelection(&buf, []string{"一井", "二井"}, ""))
	assert.Equal(t, "一井\n二井\n", buf.String())

	buf.Reset()
	require.NoError(t, printSelection(&buf, []string{"一井", "二井"}, ","))
	assert.Equal(t, "一井,二井\n", buf.String())

	buf.Reset()
	require.NoError(t, printSelection(&buf, nil, ","))
	assert.Empty(t, buf.String())
}
