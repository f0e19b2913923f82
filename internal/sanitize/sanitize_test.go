package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringRemovesReservedAndControlChars(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.txt", "report.txt"},
		{"a/b\\c", "abc"},
		{"{foo:bar}", "foobar"},
		{"name with spaces", "namewithspaces"},
		{"quote\"semi;comma,paren(one)", "quotesemicommaparenone"},
		{"tab\tnewline\n", "tabnewline"},
		{"\x00\x1f\x7fvalid", "valid"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, String(tc.in), "input %q", tc.in)
	}
}

func TestStringLeavesUnreservedPunctuationAlone(t *testing.T) {
	require.Equal(t, "a-b_c.d!e", String("a-b_c.d!e"))
}

func TestContextsPreservesEmptyTokens(t *testing.T) {
	require.Equal(t, []string{"A", "", "B"}, Contexts("A,,B"))
	require.Equal(t, []string{""}, Contexts(""))
}

func TestContextsSanitizesEachToken(t *testing.T) {
	require.Equal(t, []string{"foo", "bar"}, Contexts("fo o,ba:r"))
}
