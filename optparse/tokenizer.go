package optparse

import (
	"strings"
	"unicode/utf8"
)

// TokenKind classifies a single element of the argument vector.
type TokenKind int

const (
	TokenPositional TokenKind = iota
	TokenLong
	TokenShort
	TokenTerminator
)

func (k TokenKind) String() string {
	switch k {
	case TokenPositional:
		return "positional"
	case TokenLong:
		return "long"
	case TokenShort:
		return "short"
	case TokenTerminator:
		return "terminator"
	default:
		return "unknown"
	}
}

// Token is one scanned argument.
type Token struct {
	Kind TokenKind
	// Name is the option name without dashes, empty for positional values
	// and the terminator.
	Name string
	// Value holds the inline value of an option reference (valid if HasValue).
	Value    string
	HasValue bool
	// Raw is the original element, used for values consumed from the next
	// element and for error messages.
	Raw string
}

// IsOption reports whether the token is a long or short option reference.
func (t Token) IsOption() bool {
	return t.Kind == TokenLong || t.Kind == TokenShort
}

// Tokenizer scans an argument vector lazily, one element per token.
// It never backtracks; Peek gives one token of lookahead and Reset restarts the scan.
type Tokenizer struct {
	args       []string
	position   int
	terminated bool
}

// NewTokenizer returns a tokenizer over args. The slice is not copied.
func NewTokenizer(args []string) *Tokenizer {
	return &Tokenizer{args: args}
}

// Next scans the next element. ok is false once the vector is exhausted.
func (t *Tokenizer) Next() (tok Token, ok bool) {
	if t.position >= len(t.args) {
		return Token{}, false
	}
	tok = scanArg(t.args[t.position], t.terminated)
	t.position++
	if tok.Kind == TokenTerminator {
		t.terminated = true
	}
	return tok, true
}

// Peek returns the token Next would return without consuming it.
func (t *Tokenizer) Peek() (Token, bool) {
	if t.position >= len(t.args) {
		return Token{}, false
	}
	return scanArg(t.args[t.position], t.terminated), true
}

// Reset rewinds the tokenizer to the first element.
func (t *Tokenizer) Reset() {
	t.position = 0
	t.terminated = false
}

// Tokenize scans the whole vector eagerly.
func Tokenize(args []string) []Token {
	tokens := make([]Token, 0, len(args))
	tz := NewTokenizer(args)
	for {
		tok, ok := tz.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// scanArg classifies a single element. After the terminator every element is positional.
func scanArg(arg string, terminated bool) Token {
	tok := Token{Kind: TokenPositional, Raw: arg}
	if terminated || len(arg) < 2 || arg[0] != '-' {
		return tok
	}

	if arg[1] == '-' {
		// "--" terminates option scanning
		if len(arg) == 2 {
			tok.Kind = TokenTerminator
			return tok
		}
		tok.Kind = TokenLong
		tok.Name, tok.Value, tok.HasValue = splitInlineValue(arg[2:])
		return tok
	}

	// Short reference: exactly one rune, optionally followed by '=' or ':' and a value.
	rest := arg[1:]
	r, size := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError && size <= 1 {
		return tok
	}
	switch {
	case size == len(rest):
		tok.Kind = TokenShort
		tok.Name = rest
	case rest[size] == '=' || rest[size] == ':':
		tok.Kind = TokenShort
		tok.Name = rest[:size]
		tok.Value = rest[size+1:]
		tok.HasValue = true
	}
	return tok
}

// splitInlineValue splits "name=value" or "name:value" at the first separator.
func splitInlineValue(s string) (name, value string, hasValue bool) {
	if i := strings.IndexAny(s, "=:"); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}
