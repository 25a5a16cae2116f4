package progression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP_FirstBand(t *testing.T) {
	for xp := 0; xp < 1000; xp++ {
		level := LevelForXP(xp)
		require.Equal(t, xp/100+1, level, "xp=%d", xp)
		require.GreaterOrEqual(t, level, 1)
		require.LessOrEqual(t, level, 10)
	}
}

func TestLevelForXP_BandBoundaries(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{999, 10},
		{1000, 10},
		{1499, 10},
		{1500, 11},
		{4999, 17},
		{5000, 18},
		{24999, 27},
		{25000, 28},
		{74999, 37},
		{75000, 38},
		{359999, 56},
		{360000, 58},
		{4_559_999, 99},
		{4_560_000, 100},
		{10_000_000, 100},
		{math.MaxInt, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 5_000_000; xp += 37 {
		level := LevelForXP(xp)
		require.GreaterOrEqual(t, level, prev, "xp=%d", xp)
		require.LessOrEqual(t, level, MaxLevel)
		prev = level
	}
}

func TestLevelForXP_NegativeClampsToZero(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(-1))
	assert.Equal(t, 1, LevelForXP(math.MinInt))
}

func TestLevelForXPFloat(t *testing.T) {
	level, err := LevelForXPFloat(1499.9)
	require.NoError(t, err)
	assert.Equal(t, 10, level)

	level, err = LevelForXPFloat(1e300)
	require.NoError(t, err)
	assert.Equal(t, 100, level)

	level, err = LevelForXPFloat(-20.5)
	require.NoError(t, err)
	assert.Equal(t, 1, level)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := LevelForXPFloat(v)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestTitleForLevel(t *testing.T) {
	cases := map[int]string{
		-3:  "Unknown",
		0:   "Unknown",
		1:   "Legal Intern",
		5:   "Legal Intern",
		6:   "Associate",
		10:  "Associate",
		11:  "Senior Associate",
		15:  "Senior Associate",
		16:  "Counsel",
		20:  "Counsel",
		21:  "Partner",
		30:  "Partner",
		31:  "Legal Authority",
		50:  "Legal Authority",
		51:  "VERDICT Immortal",
		100: "VERDICT Immortal",
		101: "Unknown",
	}
	for level, want := range cases {
		assert.Equal(t, want, TitleForLevel(level), "level=%d", level)
	}
}

func TestTitleForLevel_CoversEveryLevel(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		assert.NotEqual(t, UnknownTitle, TitleForLevel(level), "level=%d", level)
	}
}

func TestFormatXP(t *testing.T) {
	cases := map[int]string{
		-5:        "0",
		0:         "0",
		750:       "750",
		999:       "999",
		1000:      "1.0K",
		1250:      "1.3K",
		15750:     "15.8K",
		999_949:   "999.9K",
		1_000_000: "1.0M",
		2_450_000: "2.5M",
	}
	for xp, want := range cases {
		assert.Equal(t, want, FormatXP(xp), "xp=%d", xp)
	}
}

func TestFormatXPFloat(t *testing.T) {
	got, err := FormatXPFloat(750.5)
	require.NoError(t, err)
	assert.Equal(t, "750.5", got)

	got, err = FormatXPFloat(15750)
	require.NoError(t, err)
	assert.Equal(t, "15.8K", got)

	_, err = FormatXPFloat(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FormatXPFloat(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGroupXP(t *testing.T) {
	assert.Equal(t, "15,750", GroupXP(15750))
	assert.Equal(t, "999", GroupXP(999))
	assert.Equal(t, "1,000,000", GroupXP(1_000_000))
}

func TestXPForLevel(t *testing.T) {
	cases := map[int]int{
		0:   0,
		1:   0,
		2:   100,
		10:  900,
		11:  1500,
		18:  5000,
		28:  25000,
		38:  75000,
		56:  345000,
		57:  360000,
		58:  360000,
		100: 4_560_000,
	}
	for level, want := range cases {
		xp, ok := XPForLevel(level)
		require.True(t, ok, "level=%d", level)
		assert.Equal(t, want, xp, "level=%d", level)
		if level >= MinLevel && level != 57 {
			assert.Equal(t, level, LevelForXP(xp), "level=%d", level)
		}
	}

	_, ok := XPForLevel(101)
	assert.False(t, ok)
}

func TestXPForLevel_IsLowestXPReachingLevel(t *testing.T) {
	for level := 2; level <= MaxLevel; level++ {
		xp, ok := XPForLevel(level)
		require.True(t, ok)
		assert.GreaterOrEqual(t, LevelForXP(xp), level, "level=%d", level)
		assert.Less(t, LevelForXP(xp-1), level, "level=%d", level)
	}
}

func TestProgressForXP(t *testing.T) {
	p := ProgressForXP(15750)
	assert.Equal(t, Progress{
		XP:           15750,
		Level:        23,
		Title:        "Partner",
		Formatted:    "15.8K",
		LevelStartXP: 15000,
		NextLevelXP:  17000,
		XPToNext:     1250,
		Percent:      37,
	}, p)

	top := ProgressForXP(9_000_000)
	assert.Equal(t, MaxLevel, top.Level)
	assert.Equal(t, 0, top.NextLevelXP)
	assert.Equal(t, 0, top.XPToNext)
	assert.Equal(t, 100, top.Percent)

	jump := ProgressForXP(359_999)
	assert.Equal(t, 56, jump.Level)
	assert.Equal(t, 360_000, jump.NextLevelXP)
	assert.Equal(t, 1, jump.XPToNext)
}

func TestProfileSample(t *testing.T) {
	level := LevelForXP(15750)
	assert.Equal(t, 23, level)
	assert.Equal(t, "Partner", TitleForLevel(level))
	assert.Equal(t, "15.8K", FormatXP(15750))
}

func TestReferentialTransparency(t *testing.T) {
	for _, xp := range []int{0, 999, 15750, 360000, 10_000_000} {
		assert.Equal(t, LevelForXP(xp), LevelForXP(xp))
		assert.Equal(t, FormatXP(xp), FormatXP(xp))
		assert.Equal(t, TitleForLevel(LevelForXP(xp)), TitleForLevel(LevelForXP(xp)))
	}
}
