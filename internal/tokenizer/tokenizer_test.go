package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verifyRoundTrip checks that concatenating token texts reproduces the input
// and that no two NonWord tokens are adjacent.
func verifyRoundTrip(t *testing.T, input string, tokens []Token) {
	t.Helper()
	var buf strings.Builder
	for i, tok := range tokens {
		buf.WriteString(tok.Text)
		if tok.Text == "" {
			t.Errorf("token %d is empty", i)
		}
		if i > 0 && tok.Kind == NonWord && tokens[i-1].Kind == NonWord {
			t.Errorf("tokens %d and %d are adjacent NonWord spans", i-1, i)
		}
	}
	assert.Equal(t, input, buf.String(), "round-trip")
}

func w(s string) Token  { return Token{Text: s, Kind: Word} }
func nw(s string) Token { return Token{Text: s, Kind: NonWord} }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{"empty", "", nil},
		{"single word", "run", []Token{w("run")}},
		{"sentence", "I run while running.", []Token{
			w("I"), nw(" "), w("run"), nw(" "), w("while"), nw(" "), w("running"), nw("."),
		}},
		{"leading and trailing non-word", "  hi!  ", []Token{nw("  "), w("hi"), nw("!  ")}},
		{"only punctuation", "... 123 !", []Token{nw("... 123 !")}},
		{"digits split words", "abc123def", []Token{w("abc"), nw("123"), w("def")}},
		{"contraction", "don't stop", []Token{w("don't"), nw(" "), w("stop")}},
		{"typographic apostrophe", "l’homme", []Token{w("l’homme")}},
		{"single connector only", "rock'n'roll", []Token{w("rock'n"), nw("'"), w("roll")}},
		{"trailing apostrophe", "dogs' ", []Token{w("dogs"), nw("' ")}},
		{"leading apostrophe", "'tis", []Token{nw("'"), w("tis")}},
		{"hebrew geresh", "ג׳ירפה", []Token{w("ג׳ירפה")}},
		{"cyrillic", "Привет, мир", []Token{w("Привет"), nw(", "), w("мир")}},
		{"combining marks stay in word", "नमस्ते", []Token{w("नमस्ते")}},
		{"hyphen separates", "well-known", []Token{w("well"), nw("-"), w("known")}},
		{"newlines", "a\nb", []Token{w("a"), nw("\n"), w("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			require.Equal(t, tt.want, got)
			verifyRoundTrip(t, tt.input, got)
		})
	}
}

func TestTokens_Restartable(t *testing.T) {
	seq := Tokens("one two, three")

	var first, second []Token
	for tok := range seq {
		first = append(first, tok)
	}
	for tok := range seq {
		second = append(second, tok)
	}

	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
}

func TestTokens_EarlyBreak(t *testing.T) {
	count := 0
	for range Tokens("a b c d e") {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestTokenize_Deterministic(t *testing.T) {
	input := "Le chat n'est pas là; it’s 42 o'clock."
	assert.Equal(t, Tokenize(input), Tokenize(input))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"I", "run", "while", "running"}, Words("I run while running."))
	assert.Nil(t, Words("  ,; "))
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Run", "run"},
		{"RUNNING", "running"},
		{"Straße", "straße"},
		{"ÉCOLE", "école"},
		{"e\u0301cole", "\u00e9cole"}, // decomposed é composes to one rune
		{"Привет", "привет"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "Fold(%q)", tt.in)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Word", Word.String())
	assert.Equal(t, "NonWord", NonWord.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.Equal(t, `Word("run")`, w("run").String())
}
