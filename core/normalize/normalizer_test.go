package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{"Foo Bar (2001)", "Foo Bar"},
		{"Titanic (1997) - Box Office", "Titanic"},
		{"No Year Suffix", "No Year Suffix"},
		{"  padded  ", "padded"},
		{"(1997)", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, Title(tc.raw), "raw=%q", tc.raw)
	}
}

func TestDate(t *testing.T) {
	got, ok := Date("December 19, 1997")
	require.True(t, ok)
	require.Equal(t, 1997, got.Year())
	require.Equal(t, time.December, got.Month())
	require.Equal(t, 19, got.Day())

	for _, raw := range []string{"N/A", "", "TBD"} {
		_, ok := Date(raw)
		require.False(t, ok, "raw=%q", raw)
	}
}

func TestMoney(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int64
		ok       bool
	}{
		{"$1,234,567", 1234567, true},
		{"$600,788,188", 600788188, true},
		{"1234567", 1234567, true},
		{"$0", 0, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"$1.2", 0, false},
	}

	for _, tc := range testCases {
		got, ok := Money(tc.raw)
		require.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		require.Equal(t, tc.expected, got, "raw=%q", tc.raw)
	}
}

func TestScaledMoney(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int64
		ok       bool
	}{
		{"$12.5 million", 12500000, true},
		{"$200 million", 200000000, true},
		{"$900 thousand", 900000, true},
		{"$1.8 billion.", 1800000000, true},
		{"$25,000,000", 0, false},
		{"N/A", 0, false},
		{"", 0, false},
		{"million", 0, false},
	}

	for _, tc := range testCases {
		got, ok := ScaledMoney(tc.raw)
		require.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		require.Equal(t, tc.expected, got, "raw=%q", tc.raw)
	}
}

func TestAwardCounts(t *testing.T) {
	testCases := []struct {
		raw         string
		nominations int
		wins        int
	}{
		{"Nominated for 3 Oscars.\nWon 1, including Best Picture.", 3, 1},
		{"Nominated for 14 Oscars. Won 11, including Best Picture.", 14, 11},
		{"Nominated for one Oscar. Won one.", 1, 1},
		{"Nominated for 2 Oscars.", 2, 0},
		{"Won 4 Oscars.", 0, 4},
		{"Nominated for Best Picture.", 0, 0},
		{"N/A", 0, 0},
		{"", 0, 0},
	}

	for _, tc := range testCases {
		noms, wins := AwardCounts(tc.raw)
		require.Equal(t, tc.nominations, noms, "raw=%q", tc.raw)
		require.Equal(t, tc.wins, wins, "raw=%q", tc.raw)
	}
}

func TestTheaters(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int
		ok       bool
	}{
		{"3,452 theaters", 3452, true},
		{"3265", 3265, true},
		{" 1,000 ", 1000, true},
		{"N/A", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		got, ok := Theaters(tc.raw)
		require.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		require.Equal(t, tc.expected, got, "raw=%q", tc.raw)
	}
}

func TestRuntime(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int
		ok       bool
	}{
		{"2 hr 15 min", 135, true},
		{"2 hrs. 15 min.", 135, true},
		{"3 hr 14 min", 194, true},
		{"1 hr 0 min", 60, true},
		{"135", 0, false},
		{"N/A", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		got, ok := Runtime(tc.raw)
		require.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		require.Equal(t, tc.expected, got, "raw=%q", tc.raw)
	}
}

func TestPeople(t *testing.T) {
	testCases := []struct {
		raw      []string
		expected []string
	}{
		{
			raw:      []string{"James Cameron"},
			expected: []string{"James Cameron"},
		},
		{
			raw:      []string{"Leonardo DiCaprio", "Kate Winslet*", "(more)"},
			expected: []string{"Leonardo DiCaprio", "Kate Winslet"},
		},
		{
			raw:      []string{"  Jon Landau  ", "", "John Smith (executive)"},
			expected: []string{"Jon Landau"},
		},
		{
			raw:      []string{"(uncredited)", "***", ""},
			expected: nil,
		},
		{
			raw:      nil,
			expected: nil,
		},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, People(tc.raw))
	}
}
