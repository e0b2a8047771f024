package lexical

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenRegex is shared by both pipelines (spec.md §4.4): runs of word
// characters plus the path/namespace punctuation terminal output commonly
// contains.
var tokenRegex = regexp.MustCompile(`[A-Za-z0-9_./:\-]+`)

const maxTextTokenBytes = 256

// TokenizerDescriptor names a pipeline and its exact regex/filter chain, fed
// verbatim into the schema fingerprint so any change to either forces a
// rebuild (spec.md §4.3 "Tokenizer identity").
type TokenizerDescriptor struct {
	Name        string
	Regex       string
	FilterChain string
}

var (
	TerminalTextTokenizer = TokenizerDescriptor{
		Name:        "terminal_text",
		Regex:       tokenRegex.String(),
		FilterChain: "lowercase|ascii_fold|max_bytes:256",
	}
	TerminalSymbolsTokenizer = TokenizerDescriptor{
		Name:        "terminal_symbols",
		Regex:       tokenRegex.String(),
		FilterChain: "lowercase",
	}
)

// TokenizeText implements the terminal-text pipeline: regex tokenize,
// lowercase, ASCII-fold, drop tokens whose byte length is >= 256.
func TokenizeText(s string) []string {
	raw := tokenRegex.FindAllString(s, -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.ToLower(tok)
		tok = asciiFold(tok)
		if len(tok) >= maxTextTokenBytes {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// TokenizeSymbols implements the terminal-symbols pipeline: regex tokenize,
// lowercase only — no folding, no length limit.
func TokenizeSymbols(s string) []string {
	raw := tokenRegex.FindAllString(s, -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		out = append(out, strings.ToLower(tok))
	}
	return out
}

// asciiFold strips combining diacritical marks from Latin letters, folding
// accented characters to their plain ASCII base where one exists. Other
// combining marks (unicode.Mn) are dropped; any other character it doesn't
// recognize passes through unchanged.
func asciiFold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8Self {
			b.WriteRune(r)
			continue
		}
		if folded, ok := foldTable[r]; ok {
			b.WriteString(folded)
			continue
		}
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark with no direct fold target: drop it
		}
		b.WriteRune(r)
	}
	return b.String()
}

const utf8Self = 0x80

// foldTable covers the Latin-1 supplement accented letters terminal output
// realistically contains; it is not a full Unicode transliteration table.
var foldTable = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ñ': "n", 'ç': "c", 'ý': "y",
	'À': "a", 'Á': "a", 'Â': "a", 'Ã': "a", 'Ä': "a", 'Å': "a",
	'È': "e", 'É': "e", 'Ê': "e", 'Ë': "e",
	'Ì': "i", 'Í': "i", 'Î': "i", 'Ï': "i",
	'Ò': "o", 'Ó': "o", 'Ô': "o", 'Õ': "o", 'Ö': "o",
	'Ù': "u", 'Ú': "u", 'Û': "u", 'Ü': "u",
	'Ñ': "n", 'Ç': "c", 'Ý': "y",
}
