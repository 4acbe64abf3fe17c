package parser

import "strings"

// DefaultSigil is the variable-reference prefix used when none is
// configured: a token whose first character is the sigil names a
// variable rather than a literal.
const DefaultSigil byte = '&'

// LineTokens is the result of lexing one source line: the mnemonic and
// its raw (still-unvalidated) operand tokens, split on the first `:`
// and then on `,`.
type LineTokens struct {
	Pos      Position
	Blank    bool // true for a line that is empty once whitespace is stripped
	HasColon bool
	Mnemonic string
	Operands []string
}

// Lexer splits one source line at a time into a mnemonic and its operand
// tokens. It performs no semantic validation beyond instruction-separator
// arity; mnemonic dispatch and operand-count checks belong to the Parser.
type Lexer struct {
	filename string
}

// NewLexer creates a lexer that reports positions against filename.
func NewLexer(filename string) *Lexer {
	return &Lexer{filename: filename}
}

// stripWhitespace removes every whitespace rune from a line, not merely
// leading/trailing whitespace: Moon instructions ignore all embedded
// spacing around the colon/comma delimiters.
func stripWhitespace(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		switch r {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TokenizeLine strips whitespace from raw and splits it into a mnemonic
// and operand tokens. A line that is blank once stripped produces a
// LineTokens with Blank == true (the parser turns these into a Nll
// instruction). A non-blank line with no ':' is not a Nll: it is an
// instruction with no operands at all, which the parser rejects as
// ErrNotEnoughOperands. A line with more than one ':' fails with
// ErrTooMuchInstructionSeparator.
func (l *Lexer) TokenizeLine(raw string, lineNumber int) (*LineTokens, error) {
	pos := Position{Filename: l.filename, Line: lineNumber}

	stripped := stripWhitespace(raw)
	if stripped == "" {
		return &LineTokens{Pos: pos, Blank: true}, nil
	}

	parts := strings.Split(stripped, ":")
	switch len(parts) {
	case 1:
		return &LineTokens{Pos: pos, Mnemonic: parts[0]}, nil
	case 2:
		return &LineTokens{
			Pos:      pos,
			HasColon: true,
			Mnemonic: parts[0],
			Operands: strings.Split(parts[1], ","),
		}, nil
	default:
		return nil, NewError(pos, ErrTooMuchInstructionSeparator,
			"line contains more than one instruction separator ':'")
	}
}
