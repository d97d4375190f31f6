package stream

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLiteral(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "hello", want: "hello"},
		{name: "newline untouched", in: "\n", want: "\n"},
		{name: "all metacharacters", in: `.*+?^${}()|[]\`, want: `\.\*\+\?\^\$\{\}\(\)\|\[\]\\`},
		{name: "delimiter", in: "data: ", want: "data: "},
		{name: "mixed", in: "a.b(c)", want: `a\.b\(c\)`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EscapeLiteral(tc.in))
		})
	}
}

func TestEscapeLiteral_MatchesOnlyLiteral(t *testing.T) {
	for _, s := range []string{"a.c", "x+", "(y)", "[z]", "^$", `a\b`, "1|2"} {
		re := regexp.MustCompile("^" + EscapeLiteral(s) + "$")
		assert.True(t, re.MatchString(s), s)
		assert.False(t, re.MatchString(s+"!"), s)
	}
	re := regexp.MustCompile(EscapeLiteral("a.c"))
	assert.False(t, re.MatchString("abc"))
}

func TestReplaceAllLiteral(t *testing.T) {
	cases := []struct {
		name                string
		haystack, find, rep string
		want                string
	}{
		{name: "newlines", haystack: "a\nb\n\nc", find: "\n", rep: "", want: "abc"},
		{name: "no match", haystack: "abc", find: "x", rep: "y", want: "abc"},
		{name: "metacharacters literal", haystack: "a.b.c", find: ".", rep: "-", want: "a-b-c"},
		{name: "non overlapping", haystack: "aaaa", find: "aa", rep: "b", want: "bb"},
		{name: "replacement not expanded", haystack: "x", find: "x", rep: "$0", want: "$0"},
		{name: "empty haystack", haystack: "", find: "a", rep: "b", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReplaceAllLiteral(tc.haystack, tc.find, tc.rep))
		})
	}
}

func TestReplaceAllLiteral_AgreesWithStringsReplaceAll(t *testing.T) {
	inputs := []struct{ h, f, r string }{
		{"data: x\ndata: y", "data: ", "|"},
		{"(a)(a)(a)", "(a)", "[b]"},
		{`\\\`, `\`, "/"},
		{"***", "**", "+"},
	}
	for _, in := range inputs {
		got := ReplaceAllLiteral(in.h, in.f, in.r)
		assert.Equal(t, strings.ReplaceAll(in.h, in.f, in.r), got)
		assert.Equal(t, strings.Count(in.h, in.f), strings.Count(got, in.r))
	}
}
