package textnorm

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "blank", in: "   \t ", want: ""},
		{name: "punctuation", in: `Tesla’s "New" Plan: Cuts, Prices! (China) [Update]?`, want: "teslas new plan cuts prices china update"},
		{name: "whitespace runs", in: "  Tesla \n\t cuts   prices ", want: "tesla cuts prices"},
		{name: "punct between spaces", in: "BYD : expands", want: "byd expands"},
		{name: "keeps hyphen", in: "Mercedes-Benz EQS", want: "mercedes-benz eqs"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeTitle(tc.in); got != tc.want {
				t.Fatalf("NormalizeTitle(%q): got %q want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTitleTruncatesRunes(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 250)
	got := NormalizeTitle(long)
	if n := utf8.RuneCountInString(got); n != MaxKeyLength {
		t.Fatalf("unexpected key length: got %d want %d", n, MaxKeyLength)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated key is not valid UTF-8")
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Tesla Cuts Prices in China",
		"  Hello !  ",
		"a " + strings.Repeat("word ", 60),
		strings.Repeat("x", 179) + " y",
		"İstanbul plant: Ford’s “big” bet",
		"",
	}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		if twice := NormalizeTitle(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTokenizeGeneral(t *testing.T) {
	t.Parallel()

	got := Tokenize("The BYD Seal-U is 2024's EV of the year, with 500 km range", General)
	want := []string{"byd", "seal-u", "year", "range"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected tokens: got %v want %v", got, want)
	}
}

func TestTokenizeVelocityIsStricter(t *testing.T) {
	t.Parallel()

	text := "Company says new battery line this week beats market"
	general := Tokenize(text, General)
	velocity := Tokenize(text, Velocity)

	if !slices.Contains(general, "week") || !slices.Contains(general, "line") {
		t.Fatalf("general set should keep temporal words: %v", general)
	}
	want := []string{"battery", "beats"}
	if !slices.Equal(velocity, want) {
		t.Fatalf("unexpected velocity tokens: got %v want %v", velocity, want)
	}
}

func TestTokensStopsEarly(t *testing.T) {
	t.Parallel()

	var got []string
	for token := range Tokens("alpha beta gamma delta", General) {
		got = append(got, token)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"alpha", "beta"}) {
		t.Fatalf("unexpected tokens: %v", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("unexpected truncate: %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("unexpected truncate: %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("unexpected truncate: %q", got)
	}
}
