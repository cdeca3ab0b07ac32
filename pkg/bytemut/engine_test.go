package bytemut_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

var baseList = []bytemut.Strategy{
	bytemut.BitFlip, bytemut.ByteFlip, bytemut.NegateByte, bytemut.SwapNeighbors,
	bytemut.SwapEndianness, bytemut.Arithmetic, bytemut.DeleteBytes, bytemut.DeleteRange,
	bytemut.CopyBytes, bytemut.CopyRange, bytemut.InsertConstants, bytemut.Truncate,
	bytemut.Append, bytemut.Set,
}

func mustCorpus(t *testing.T, entries ...string) *bytemut.Corpus {
	t.Helper()

	raw := make([][]byte, 0, len(entries))
	for _, e := range entries {
		raw = append(raw, []byte(e))
	}

	c, err := bytemut.NewCorpus(raw)
	require.NoError(t, err)

	return c
}

func mustDict(t *testing.T, tokens ...string) *bytemut.Dictionary {
	t.Helper()

	raw := make([][]byte, 0, len(tokens))
	for _, tok := range tokens {
		raw = append(raw, []byte(tok))
	}

	d, err := bytemut.NewDictionary(raw)
	require.NoError(t, err)

	return d
}

func Test_New_Builds_Base_List_When_No_Resources(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{Seed: 1})
	require.NoError(t, err)

	if diff := cmp.Diff(baseList, eng.Active()); diff != "" {
		t.Fatalf("active list mismatch (-want +got):\n%s", diff)
	}
}

func Test_New_Appends_Dictionary_Then_Splice_When_Both_Resources_Given(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{
		Seed:       1,
		Corpus:     mustCorpus(t, "a"),
		Dictionary: mustDict(t, "tok"),
	})
	require.NoError(t, err)

	want := append(slices.Clone(baseList), bytemut.InsertFromDict, bytemut.Splice)
	require.Equal(t, want, eng.Active())
}

func Test_New_Generates_Random_Buffer_When_No_Input(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{Seed: 5})
	require.NoError(t, err)
	require.Len(t, eng.Bytes(), bytemut.DefaultBufferSize)
	require.Equal(t, bytemut.BitFlip, eng.Strategy())
}

func Test_New_Copies_Input_When_Given(t *testing.T) {
	t.Parallel()

	in := []byte("seed input")

	eng, err := bytemut.New(bytemut.Options{Seed: 5, Input: in})
	require.NoError(t, err)

	in[0] = 'X'

	require.Equal(t, "seed input", string(eng.Bytes()))
}

func Test_New_Returns_Error_When_Allow_List_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		opts bytemut.Options
		want error
	}{
		{
			name: "splice without corpus",
			opts: bytemut.Options{Strategies: []bytemut.Strategy{bytemut.Splice}},
			want: bytemut.ErrStrategyUnavailable,
		},
		{
			name: "dict without dictionary",
			opts: bytemut.Options{Strategies: []bytemut.Strategy{bytemut.BitFlip, bytemut.InsertFromDict}},
			want: bytemut.ErrStrategyUnavailable,
		},
		{
			name: "unknown tag",
			opts: bytemut.Options{Strategies: []bytemut.Strategy{bytemut.Strategy(200)}},
			want: bytemut.ErrUnknownStrategy,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := bytemut.New(tc.opts)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func Test_New_Keeps_Tag_Order_When_Allow_List_Unordered(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{
		Seed:       1,
		Strategies: []bytemut.Strategy{bytemut.Set, bytemut.BitFlip, bytemut.Truncate},
	})
	require.NoError(t, err)
	require.Equal(t, []bytemut.Strategy{bytemut.BitFlip, bytemut.Truncate, bytemut.Set}, eng.Active())
}

func Test_Mutate_Never_Selects_Gated_Strategies_When_Resources_Missing(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{Seed: 77})
	require.NoError(t, err)

	for range 5000 {
		eng.Mutate()

		s := eng.Strategy()
		require.NotEqual(t, bytemut.Splice, s)
		require.NotEqual(t, bytemut.InsertFromDict, s)
	}
}

func Test_Mutate_Reaches_Every_Active_Strategy_When_Run_Long_Enough(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{
		Seed:       3,
		Corpus:     mustCorpus(t, "hello corpus", "second entry with more bytes"),
		Dictionary: mustDict(t, "GET", "POST"),
	})
	require.NoError(t, err)

	for range 5000 {
		eng.Mutate()
	}

	stats := eng.Stats()
	require.Equal(t, uint64(5000), stats.Total)

	var sum uint64

	for _, s := range eng.Active() {
		assert.Positivef(t, stats.Count(s), "%s never selected", s)
		sum += stats.Count(s)
	}

	require.Equal(t, stats.Total, sum)
}

func Test_Mutate_Produces_Identical_Stream_When_Same_Seed(t *testing.T) {
	t.Parallel()

	for seed := uint64(1); seed <= 10; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			corpus := mustCorpus(t, "AAAA", "BBBBBBBB", "0123456789abcdef")
			dict := mustDict(t, "CAFEBABE")

			a, err := bytemut.New(bytemut.Options{Seed: seed, Corpus: corpus, Dictionary: dict})
			require.NoError(t, err)

			b, err := bytemut.New(bytemut.Options{Seed: seed, Corpus: corpus, Dictionary: dict})
			require.NoError(t, err)

			for i := range 300 {
				ma := bytes.Clone(a.Mutate())
				mb := b.Mutate()

				require.Equalf(t, ma, mb, "mutant %d", i)
				require.Equalf(t, a.Strategy(), b.Strategy(), "mutant %d", i)
			}
		})
	}
}

func Test_Engine_Reproduces_Run_When_Effective_Seed_Reused(t *testing.T) {
	t.Parallel()

	a, err := bytemut.New(bytemut.Options{})
	require.NoError(t, err)
	require.NotZero(t, a.Seed())

	b, err := bytemut.New(bytemut.Options{Seed: a.Seed()})
	require.NoError(t, err)
	require.Equal(t, a.Bytes(), b.Bytes())

	for range 50 {
		require.Equal(t, bytes.Clone(a.Mutate()), b.Mutate())
	}
}

func Test_Mutate_Resamples_From_Corpus_When_Corpus_Given(t *testing.T) {
	t.Parallel()

	entries := []string{"first-entry", "second-entry-longer"}

	eng, err := bytemut.New(bytemut.Options{
		Seed:       11,
		Input:      []byte("ignored after first call"),
		Corpus:     mustCorpus(t, entries...),
		Strategies: []bytemut.Strategy{bytemut.Truncate},
	})
	require.NoError(t, err)

	for range 200 {
		got := string(eng.Mutate())

		ok := false

		for _, e := range entries {
			if len(got) > 0 && len(got) <= len(e) && e[:len(got)] == got {
				ok = true
			}
		}

		require.Truef(t, ok, "%q is not a prefix of any corpus entry", got)
	}
}

func Test_Mutate_Resamples_Random_Buffer_When_No_Corpus(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{
		Seed:       11,
		Input:      []byte("tiny"),
		Strategies: []bytemut.Strategy{bytemut.BitFlip},
	})
	require.NoError(t, err)

	require.Len(t, eng.Mutate(), bytemut.DefaultBufferSize)
}

func Test_MutateInput_Leaves_Caller_Input_When_Mutating(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{Seed: 9, Strategies: []bytemut.Strategy{bytemut.NegateByte}})
	require.NoError(t, err)

	in := bytes.Repeat([]byte{0x00}, 64)
	out := eng.MutateInput(in)

	require.Equal(t, bytes.Repeat([]byte{0x00}, 64), in)
	require.Len(t, out, 64)
	require.NotEqual(t, in, out)
}

func Test_ApplyInput_Uses_Forced_Strategy_When_Called(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{Seed: 9})
	require.NoError(t, err)

	out := eng.ApplyInput(bytemut.Append, []byte("01234"))
	require.Equal(t, bytemut.Append, eng.Strategy())
	require.Len(t, out, 6)
	require.Equal(t, uint64(1), eng.Stats().Count(bytemut.Append))
}

func Test_Apply_Panics_When_Resource_Missing(t *testing.T) {
	t.Parallel()

	eng, err := bytemut.New(bytemut.Options{Seed: 1})
	require.NoError(t, err)

	require.Panics(t, func() { eng.Apply(bytemut.Splice) })
	require.Panics(t, func() { eng.Apply(bytemut.InsertFromDict) })
	require.Panics(t, func() { eng.Apply(bytemut.Strategy(99)) })
}

func Test_Engine_Logs_Strategy_When_Logger_Set(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng, err := bytemut.New(bytemut.Options{Seed: 1, Logger: logger})
	require.NoError(t, err)

	eng.Apply(bytemut.Truncate)
	require.Contains(t, out.String(), "strategy=truncate")
}

func Test_Engines_Share_Corpus_When_Running_Concurrently(t *testing.T) {
	t.Parallel()

	corpus := mustCorpus(t, "shared-one", "shared-two", "shared-three")
	dict := mustDict(t, "tok")

	var wg sync.WaitGroup

	errs := make(chan error, 8)

	for w := range 8 {
		wg.Go(func() {
			eng, err := bytemut.New(bytemut.Options{Seed: uint64(w + 1), Corpus: corpus, Dictionary: dict})
			if err != nil {
				errs <- err

				return
			}

			for range 500 {
				eng.Mutate()
			}
		})
	}

	wg.Wait()
	close(errs)

	require.NoError(t, errors.Join(collect(errs)...))
	require.Equal(t, "shared-one", string(corpus.Entry(0)))
}

func collect(ch <-chan error) []error {
	var out []error
	for err := range ch {
		out = append(out, err)
	}

	return out
}

func Test_Stats_Merge_Sums_Counts_When_Combined(t *testing.T) {
	t.Parallel()

	a, err := bytemut.New(bytemut.Options{Seed: 1})
	require.NoError(t, err)

	b, err := bytemut.New(bytemut.Options{Seed: 2})
	require.NoError(t, err)

	a.Apply(bytemut.Set)
	b.Apply(bytemut.Set)
	b.Apply(bytemut.BitFlip)

	merged := a.Stats().Merge(b.Stats())
	require.Equal(t, uint64(3), merged.Total)
	require.Equal(t, uint64(2), merged.Count(bytemut.Set))
	require.Equal(t, uint64(1), merged.Count(bytemut.BitFlip))
}
