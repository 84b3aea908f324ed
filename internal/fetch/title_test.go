package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSanitizeTitle covers the filename-safety rules.
func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
	}{
		{"plain", "My Recording", "My Recording"},
		{"hashtag trail stripped", "Great talk #ai #golang", "Great talk"},
		{"unsafe characters removed", "Hello/World: Test #clip", "HelloWorld Test"},
		{"whitespace collapsed", "  a \t b\n\nc  ", "a b c"},
		{"allowed punctuation kept", "Intro (part 1) - v2.0_final", "Intro (part 1) - v2.0_final"},
		{"everything stripped", "???///:::", ""},
		{"hashtag only", "#shorts", ""},
		{"accented letters kept", "Perché no", "Perché no"},
		{"accents with punctuation", "Caffè e musica!", "Caffè e musica"},
		{"non-latin script kept", "日本語のタイトル", "日本語のタイトル"},
		{"mixed scripts", "Интервью 2024: часть 1", "Интервью 2024 часть 1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeTitle(tc.in))
		})
	}
}

// TestSanitizeTitleTruncates checks the 50 character cap.
func TestSanitizeTitleTruncates(t *testing.T) {
	long := "word "
	for len(long) < 200 {
		long += "word "
	}

	got := SanitizeTitle(long)
	assert.LessOrEqual(t, len([]rune(got)), 50)
	assert.NotEmpty(t, got)
}

// TestSanitizeTitleTruncatesByRunes checks the cap never splits a
// multibyte character.
func TestSanitizeTitleTruncatesByRunes(t *testing.T) {
	long := ""
	for i := 0; i < 80; i++ {
		long += "é"
	}

	got := SanitizeTitle(long)
	runes := []rune(got)
	assert.Len(t, runes, 50)
	for _, r := range runes {
		assert.Equal(t, 'é', r)
	}
}

// TestSanitizeTitleIsIdempotent checks applying twice equals once.
func TestSanitizeTitleIsIdempotent(t *testing.T) {
	inputs := []string{
		"Hello/World: Test #clip",
		"a very long title that will certainly be cut off somewhere in the middle of a word",
		"  spaced   out   ",
		"ends with space at char fifty exactly here yes it d",
		"Caffè e musica: la playlist più lunga che ci sia mai stata",
	}

	for _, in := range inputs {
		once := SanitizeTitle(in)
		twice := SanitizeTitle(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

// TestFallbackName checks the generated stem for empty titles.
func TestFallbackName(t *testing.T) {
	assert.Equal(t, "audio_0f1e2d3c", FallbackName("0f1e2d3c4b5a69788796a5b4c3d2e1f0"))
	assert.Equal(t, "audio_abc", FallbackName("abc"))
}
