package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

func newTestSession(t *testing.T, opts bytemut.Options) (*session, *bytes.Buffer) {
	t.Helper()

	if opts.Seed == 0 {
		opts.Seed = 7
	}

	e, err := bytemut.New(opts)
	require.NoError(t, err)

	var out bytes.Buffer

	return newSession(e, &out), &out
}

func Test_Session_Next_Reports_Each_Step_When_Count_Small(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t, bytemut.Options{Input: []byte("hello world")})

	quit, err := s.exec("next 3")
	require.NoError(t, err)
	assert.False(t, quit)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "#3 "), lines[2])
	assert.Equal(t, uint64(3), s.engine.Stats().Total)
}

func Test_Session_Next_Summarizes_When_Count_Large(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t, bytemut.Options{Input: []byte("hello world")})

	_, err := s.exec("next 50")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "#50 applied 50 mutations")
}

func Test_Session_Force_Pins_Strategy_When_Active(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t, bytemut.Options{Input: []byte("0123456789")})

	_, err := s.exec("force Append")
	require.NoError(t, err)

	_, err = s.exec("next 5")
	require.NoError(t, err)

	assert.Equal(t, bytemut.Append, s.engine.Strategy())
	assert.Equal(t, uint64(5), s.engine.Stats().Count(bytemut.Append))
	assert.Greater(t, len(s.engine.Bytes()), 10)

	out.Reset()

	_, err = s.exec("strategies")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "* append")

	_, err = s.exec("force off")
	require.NoError(t, err)
	assert.False(t, s.pinned)
}

func Test_Session_Force_Fails_When_Strategy_Inactive_Or_Unknown(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, bytemut.Options{Input: []byte("abc")})

	_, err := s.exec("force splice")
	require.ErrorIs(t, err, errInactive)

	_, err = s.exec("force nope")
	require.ErrorIs(t, err, bytemut.ErrUnknownStrategy)

	_, err = s.exec("force")
	require.ErrorIs(t, err, errUsage)
	assert.False(t, s.pinned)
}

func Test_Session_Save_Creates_Parent_Dirs_When_Missing(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, bytemut.Options{Input: []byte("seed input")})

	_, err := s.exec("next 4")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "runs", "a", "out.bin")

	_, err = s.exec("save " + path)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.engine.Bytes(), got)
}

func Test_Session_Exec_Handles_Misc_Commands(t *testing.T) {
	t.Parallel()

	s, out := newTestSession(t, bytemut.Options{Input: []byte("AB")})

	_, err := s.exec("show")
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"AB"`)

	_, err = s.exec("hex")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "41 42")

	_, err = s.exec("next 0")
	require.ErrorIs(t, err, errUsage)

	_, err = s.exec("frobnicate")
	require.Error(t, err)

	quit, err := s.exec("q")
	require.NoError(t, err)
	assert.True(t, quit)
}

func Test_Session_Complete_Suggests_Commands_And_Strategies(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, bytemut.Options{Input: []byte("AB")})

	assert.Equal(t, []string{"show", "strategies", "stats", "save"}, s.complete("s"))
	assert.Equal(t, []string{"force swap-neighbors", "force swap-endianness"}, s.complete("force sw"))
	assert.Contains(t, s.complete("force "), "force off")
}
