package analyzer

import (
    "strings"
    "unicode"

    "github.com/cloudflare/ahocorasick"
)

// Matches tokens against a fixed word list using Aho-Corasick. The automaton
// finds candidate hits; the caller-selected predicate (whole-word or prefix)
// confirms them per token. One matcher pair is shared by every worker and the
// synchronous HTTP path, so matching must use the thread-safe entrypoint:
// Matcher.Match mutates internal visit counters.
type wordMatcher struct {
    words   []string
    matcher *ahocorasick.Matcher
}

func newWordMatcher(words []string) *wordMatcher {
    lowered := make([]string, len(words))
    patterns := make([][]byte, len(words))
    for i, w := range words {
        lowered[i] = strings.ToLower(w)
        patterns[i] = []byte(lowered[i])
    }
    return &wordMatcher{
        words:   lowered,
        matcher: ahocorasick.NewMatcher(patterns),
    }
}

// Counts tokens that exactly equal a listed word.
func (m *wordMatcher) countWhole(tokens []string) int {
    count := 0
    for _, tok := range tokens {
        for _, hit := range m.matcher.MatchThreadSafe([]byte(tok)) {
            if m.words[hit] == tok {
                count++
                break
            }
        }
    }
    return count
}

// Counts tokens that equal a listed word or start with one.
func (m *wordMatcher) countPrefix(tokens []string) int {
    count := 0
    for _, tok := range tokens {
        for _, hit := range m.matcher.MatchThreadSafe([]byte(tok)) {
            if strings.HasPrefix(tok, m.words[hit]) {
                count++
                break
            }
        }
    }
    return count
}

// Splits content into lower-case word tokens. Anything that is not a letter
// or digit delimits a token.
func tokenize(content string) []string {
    return strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
        return !unicode.IsLetter(r) && !unicode.IsDigit(r)
    })
}

// Returns the number of upper-case letters and the total number of letters.
func countLetters(content string) (upper, letters int) {
    for _, r := range content {
        if unicode.IsLetter(r) {
            letters++
            if unicode.IsUpper(r) {
                upper++
            }
        }
    }
    return upper, letters
}
