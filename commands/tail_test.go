package commands

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulene/goreutils/core/runenv"
	"github.com/circulene/goreutils/core/runenv/runenvtest"
)

const tailFixture = "one\ntwo\nthree\nfour\nfive\n"

func writeTailFixture(t *testing.T, cmd *runenvtest.Cmd) {
	t.Helper()
	require.NoError(t, afero.WriteFile(cmd.Fs, "/five.txt", []byte(tailFixture), 0644))
}

func TestTail_lines(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"default":        {[]string{"/five.txt"}, tailFixture},
		"last two":       {[]string{"-n", "2", "/five.txt"}, "four\nfive\n"},
		"explicit minus": {[]string{"-n", "-2", "/five.txt"}, "four\nfive\n"},
		"from third":     {[]string{"-n", "+3", "/five.txt"}, "three\nfour\nfive\n"},
		"plus zero":      {[]string{"-n", "+0", "/five.txt"}, tailFixture},
		"zero":           {[]string{"-n", "0", "/five.txt"}, ""},
		"past end":       {[]string{"-n", "+6", "/five.txt"}, ""},
		"more than file": {[]string{"-n", "100", "/five.txt"}, tailFixture},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cmd := runenvtest.Command(Tail, "tail", tc.args...)
			writeTailFixture(t, cmd)

			out, err := cmd.Output()
			require.NoError(t, err)
			assert.Equal(t, 0, cmd.ExitStatus, "exit code")
			assert.Equal(t, tc.want, string(out))
		})
	}
}

func TestTail_bytes(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"last five":  {[]string{"-c", "5", "/five.txt"}, "five\n"},
		"from byte":  {[]string{"-c", "+5", "/five.txt"}, "two\nthree\nfour\nfive\n"},
		"whole file": {[]string{"-c", "+0", "/five.txt"}, tailFixture},
		"zero":       {[]string{"-c", "0", "/five.txt"}, ""},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cmd := runenvtest.Command(Tail, "tail", tc.args...)
			writeTailFixture(t, cmd)

			out, err := cmd.Output()
			require.NoError(t, err)
			assert.Equal(t, 0, cmd.ExitStatus, "exit code")
			assert.Equal(t, tc.want, string(out))
		})
	}
}

func TestTail_stdin(t *testing.T) {
	cmd := runenvtest.Command(Tail, "tail", "-n", "1", "-")
	cmd.Stdin = strings.NewReader("alpha\nbeta\n")

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Equal(t, "beta\n", string(out))
}

func TestTail_headers(t *testing.T) {
	cmd := runenvtest.Command(Tail, "tail", "-n", "1", "/a.txt", "/b.txt")
	require.NoError(t, afero.WriteFile(cmd.Fs, "/a.txt", []byte("a1\na2\n"), 0644))
	require.NoError(t, afero.WriteFile(cmd.Fs, "/b.txt", []byte("b1\nb2\n"), 0644))

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "==> /a.txt <==\na2\n\n==> /b.txt <==\nb2\n", string(out))
}

func TestTail_quiet(t *testing.T) {
	cmd := runenvtest.Command(Tail, "tail", "-q", "-n", "1", "/a.txt", "/b.txt")
	require.NoError(t, afero.WriteFile(cmd.Fs, "/a.txt", []byte("a1\na2\n"), 0644))
	require.NoError(t, afero.WriteFile(cmd.Fs, "/b.txt", []byte("b1\nb2\n"), 0644))

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "a2\nb2\n", string(out))
}

// A source that can't be opened is reported and the run continues.
func TestTail_missingFileContinues(t *testing.T) {
	cmd := runenvtest.Command(Tail, "tail", "-q", "-n", "1", "/missing.txt", "/b.txt")
	require.NoError(t, afero.WriteFile(cmd.Fs, "/b.txt", []byte("b1\nb2\n"), 0644))

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Equal(t, "b2\n", string(out))
	assert.Contains(t, stderr.String(), "/missing.txt")
}

func TestTail_badCount(t *testing.T) {
	cmd := runenvtest.Command(Tail, "tail", "-n", "3.14", "/five.txt")
	writeTailFixture(t, cmd)

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus, "exit code")
	assert.Contains(t, string(out), "illegal line count -- 3.14")
}

func TestTail_conflictingModes(t *testing.T) {
	cmd := runenvtest.Command(Tail, "tail", "-n", "1", "-c", "1", "/five.txt")
	writeTailFixture(t, cmd)

	require.NoError(t, cmd.Run())
	assert.Equal(t, 1, cmd.ExitStatus, "exit code")
}

func TestTail_noFiles(t *testing.T) {
	cmd := runenvtest.Command(Tail, "tail")

	require.NoError(t, cmd.Run())
	assert.Equal(t, 1, cmd.ExitStatus, "exit code")
}

var _ runenv.ProcessFunc = Tail
