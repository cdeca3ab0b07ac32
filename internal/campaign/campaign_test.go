package campaign_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/bytemut/internal/campaign"
	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

func readDir(t *testing.T, dir string) map[string][]byte {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	out := make(map[string][]byte, len(entries))

	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)

		out[e.Name()] = data
	}

	return out
}

func Test_Run_Writes_Count_Files_When_Completed(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")

	res, err := campaign.Run(context.Background(), campaign.Options{
		OutDir:  dir,
		Count:   25,
		Workers: 4,
		Seed:    1234,
	})
	require.NoError(t, err)
	require.Equal(t, 25, res.Written)
	require.Equal(t, uint64(25), res.Stats.Total)
	require.Equal(t, uint64(1234), res.Seed)
	require.Equal(t, 4, res.Workers)

	files := readDir(t, dir)
	require.Len(t, files, 25)

	var total uint64
	for _, data := range files {
		total += uint64(len(data))
	}

	require.Equal(t, res.Stats.Bytes, total)
}

func Test_Run_Reproduces_Files_When_Seed_And_Workers_Match(t *testing.T) {
	t.Parallel()

	corpus, err := bytemut.NewCorpus([][]byte{[]byte("AAAA"), []byte("BBBBBBBB")})
	require.NoError(t, err)

	opts := campaign.Options{Count: 12, Workers: 3, Seed: 42, Corpus: corpus}

	a := opts
	a.OutDir = t.TempDir()
	_, err = campaign.Run(context.Background(), a)
	require.NoError(t, err)

	b := opts
	b.OutDir = t.TempDir()
	_, err = campaign.Run(context.Background(), b)
	require.NoError(t, err)

	require.Equal(t, readDir(t, a.OutDir), readDir(t, b.OutDir))
}

func Test_Run_Names_Files_By_Index_And_Strategy_When_Allow_List_Set(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := campaign.Run(context.Background(), campaign.Options{
		OutDir:     dir,
		Count:      3,
		Workers:    2,
		Seed:       7,
		Input:      []byte("0123456789abcdef"),
		Strategies: []bytemut.Strategy{bytemut.Truncate},
	})
	require.NoError(t, err)

	names := make([]string, 0, 3)
	for name, data := range readDir(t, dir) {
		names = append(names, name)

		require.True(t, bytes.HasPrefix([]byte("0123456789abcdef"), data), "%q is not a prefix", data)
	}

	sort.Strings(names)
	require.Equal(t, []string{
		"000000-truncate.bin",
		"000001-truncate.bin",
		"000002-truncate.bin",
	}, names)
}

func Test_Run_Stops_When_Context_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()

	res, err := campaign.Run(ctx, campaign.Options{OutDir: dir, Count: 1000, Workers: 2, Seed: 1})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, res.Written)
	require.Empty(t, readDir(t, dir))
}

func Test_Run_Returns_Error_When_Count_Not_Positive(t *testing.T) {
	t.Parallel()

	_, err := campaign.Run(context.Background(), campaign.Options{OutDir: t.TempDir()})
	require.ErrorIs(t, err, campaign.ErrCountInvalid)
}

func Test_Run_Returns_Error_When_Strategy_Unavailable(t *testing.T) {
	t.Parallel()

	_, err := campaign.Run(context.Background(), campaign.Options{
		OutDir:     t.TempDir(),
		Count:      1,
		Strategies: []bytemut.Strategy{bytemut.Splice},
	})
	require.ErrorIs(t, err, bytemut.ErrStrategyUnavailable)
}

func Test_Run_Draws_Progress_When_Writer_Given(t *testing.T) {
	t.Parallel()

	var progress bytes.Buffer

	_, err := campaign.Run(context.Background(), campaign.Options{
		OutDir:   t.TempDir(),
		Count:    5,
		Workers:  1,
		Seed:     3,
		Progress: &progress,
	})
	require.NoError(t, err)
	require.NotZero(t, progress.Len())
}
