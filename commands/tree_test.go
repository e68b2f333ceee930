package commands

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulene/goreutils/core/runenv/runenvtest"
)

func treeFixtures(t *testing.T, cmd *runenvtest.Cmd) {
	t.Helper()
	require.NoError(t, cmd.Fs.MkdirAll("/proj/src/vendor", 0755))
	require.NoError(t, afero.WriteFile(cmd.Fs, "/proj/README.md", []byte("# proj\n"), 0644))
	require.NoError(t, afero.WriteFile(cmd.Fs, "/proj/src/lib.rs", []byte("lib\n"), 0644))
	require.NoError(t, afero.WriteFile(cmd.Fs, "/proj/src/main.rs", []byte("main\n"), 0644))
	require.NoError(t, afero.WriteFile(cmd.Fs, "/proj/src/vendor/pkg.rs", []byte("pkg\n"), 0644))
}

func TestTree(t *testing.T) {
	cmd := runenvtest.Command(Tree, "tree", "/proj")
	treeFixtures(t, cmd)

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)

	g := goldie.New(t)
	g.Assert(t, "tree_project", out)
}

func TestTree_emptyDirectory(t *testing.T) {
	cmd := runenvtest.Command(Tree, "tree", "/empty")
	require.NoError(t, cmd.Fs.MkdirAll("/empty", 0755))

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "/empty\n\n1 directories, 0 files\n", string(out))
}

func TestTree_missingPath(t *testing.T) {
	stderr := &bytes.Buffer{}
	cmd := runenvtest.Command(Tree, "tree", "/nope")
	cmd.Stderr = stderr

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Empty(t, string(out))
	assert.Contains(t, stderr.String(), "/nope")
}
