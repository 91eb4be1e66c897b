package cmdutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty", input: "", want: []string{}},
		{name: "Blank", input: "   \t", want: []string{}},
		{name: "Simple", input: "-m performance", want: []string{"-m", "performance"}},
		{name: "RepeatedSpaces", input: "  -s 5000   -l 5000 ", want: []string{"-s", "5000", "-l", "5000"}},
		{name: "DoubleQuotes", input: `--name "a b"`, want: []string{"--name", "a b"}},
		{name: "SingleQuotes", input: `--name 'a "b"'`, want: []string{"--name", `a "b"`}},
		{name: "Escapes", input: `--path a\ b`, want: []string{"--path", "a b"}},
		{name: "EnvLeftAlone", input: "--dir $HOME", want: []string{"--dir", "$HOME"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SplitFlags(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("UnterminatedQuote", func(t *testing.T) {
		t.Parallel()
		_, err := SplitFlags(`--name "a b`)
		require.Error(t, err)
	})

	t.Run("UnquotedOperators", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{
			"--a x;--b y",
			"-m all|x",
			"--foo a&b",
			"-o >out",
			"-i <in",
		} {
			args, err := SplitFlags(input)
			require.Error(t, err, input)
			assert.Nil(t, args, input)
			assert.Contains(t, err.Error(), "unquoted", input)
		}
	})

	t.Run("QuotedOperators", func(t *testing.T) {
		t.Parallel()
		got, err := SplitFlags(`--a "x;y" 'p|q' r\&s`)
		require.NoError(t, err)
		assert.Equal(t, []string{"--a", "x;y", "p|q", "r&s"}, got)
	})
}

func TestJoinFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", JoinFlags(nil))
	assert.Equal(t, "-m performance", JoinFlags([]string{"-m", "performance"}))

	for _, args := range [][]string{
		{"-s", "20000", "-S"},
		{"--name", "a b"},
		{"--label", `it's "quoted"`},
		{"--empty", ""},
		{"--sep", "a\tb"},
		{"--ctl", "x\x01y"},
		{"--mixed", "it's\x1b[0m"},
		{"--ops", "a;b|c&d"},
	} {
		joined := JoinFlags(args)
		back, err := SplitFlags(joined)
		require.NoError(t, err, joined)
		assert.Equal(t, args, back, joined)
		assert.NotContains(t, joined, "$'", "joined flags must stay POSIX sh")
	}
}
