package commands

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulene/goreutils/core/runenv/runenvtest"
)

func TestWcCount(t *testing.T) {
	text := "I don't want the world. I just want your half.\r\n"

	count, err := newWcCount("", strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.lines)
	assert.Equal(t, int64(10), count.words)
	assert.Equal(t, int64(48), count.bytes)
	assert.Equal(t, int64(48), count.chars)
}

func TestWc_singleFile(t *testing.T) {
	cmd := runenvtest.Command(Wc, "wc", "/foo.txt")
	require.NoError(t, afero.WriteFile(cmd.Fs, "/foo.txt", []byte("Hello,\nworld !"), 0600))

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Equal(t, "       1       3      14 /foo.txt\n", string(out))
}

func TestWc_stdin(t *testing.T) {
	cmd := runenvtest.Command(Wc, "wc")
	cmd.Stdin = strings.NewReader("a b\nc\n")

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "       2       3       6\n", string(out))
}

func TestWc_flags(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"lines only": {[]string{"-l", "/foo.txt"}, "       1 /foo.txt\n"},
		"words only": {[]string{"-w", "/foo.txt"}, "       2 /foo.txt\n"},
		"chars":      {[]string{"-m", "/foo.txt"}, "       4 /foo.txt\n"},
		"bytes":      {[]string{"-c", "/foo.txt"}, "       5 /foo.txt\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cmd := runenvtest.Command(Wc, "wc", tc.args...)
			// Two words, four characters, five bytes.
			require.NoError(t, afero.WriteFile(cmd.Fs, "/foo.txt", []byte("á b\n"), 0600))

			out, err := cmd.Output()
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(out))
		})
	}
}

func TestWc_total(t *testing.T) {
	cmd := runenvtest.Command(Wc, "wc", "-l", "/a.txt", "/b.txt")
	require.NoError(t, afero.WriteFile(cmd.Fs, "/a.txt", []byte("1\n2\n"), 0600))
	require.NoError(t, afero.WriteFile(cmd.Fs, "/b.txt", []byte("3\n"), 0600))

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t,
		"       2 /a.txt\n"+
			"       1 /b.txt\n"+
			"       3 total\n",
		string(out))
}

func TestWc_conflictingFlags(t *testing.T) {
	cmd := runenvtest.Command(Wc, "wc", "-c", "-m", "/a.txt")

	require.NoError(t, cmd.Run())
	assert.Equal(t, 1, cmd.ExitStatus, "exit code")
}

func TestWc_missingFileContinues(t *testing.T) {
	cmd := runenvtest.Command(Wc, "wc", "-l", "/missing.txt")

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Empty(t, string(out))
	assert.Contains(t, stderr.String(), "/missing.txt")
}
