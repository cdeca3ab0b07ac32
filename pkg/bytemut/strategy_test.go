package bytemut_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/bytemut/pkg/bytemut"
)

func Test_ParseStrategy_Round_Trips_When_Given_String_Form(t *testing.T) {
	t.Parallel()

	all := bytemut.AllStrategies()
	require.Len(t, all, 16)

	for _, s := range all {
		got, err := bytemut.ParseStrategy(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func Test_ParseStrategy_Ignores_Case_And_Separators_When_Matching(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"BitFlip", "bit_flip", "bit flip", " BIT-FLIP "} {
		got, err := bytemut.ParseStrategy(name)
		require.NoErrorf(t, err, "%q", name)
		assert.Equal(t, bytemut.BitFlip, got)
	}
}

func Test_ParseStrategy_Returns_ErrUnknownStrategy_When_Name_Unknown(t *testing.T) {
	t.Parallel()

	_, err := bytemut.ParseStrategy("explode")
	require.ErrorIs(t, err, bytemut.ErrUnknownStrategy)
}

func Test_Strategy_Reports_Size_Effect_When_Queried(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bytemut.SizePreserving, bytemut.InsertFromDict.SizeEffect())
	assert.Equal(t, bytemut.SizeShrinking, bytemut.Truncate.SizeEffect())
	assert.Equal(t, bytemut.SizeGrowing, bytemut.Append.SizeEffect())
	assert.Equal(t, bytemut.SizeArbitrary, bytemut.Splice.SizeEffect())
	assert.Equal(t, "Strategy(42)", bytemut.Strategy(42).String())
}
