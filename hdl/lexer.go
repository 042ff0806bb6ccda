package hdl

import "unicode/utf8"

// Lexer splits hardware description source text into tokens.
type Lexer struct {
	input string
	pos   int
	// line and lineStart track the current line number and the offset of
	// the newline that opened it (-1 on the first line).
	line      int
	lineStart int
}

// NewLexer creates a new lexer for the given source text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, lineStart: -1}
}

// Tokenize scans src and tags operator tokens.
func Tokenize(src string) ([]Token, error) {
	tokens, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return ClassifyOperators(tokens), nil
}

// Scan consumes the whole input and returns the text and brace tokens.
// Operators are left as KindText; see ClassifyOperators.
func (l *Lexer) Scan() ([]Token, error) {
	tokens := make([]Token, 0, len(l.input)/3)

	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		switch {
		case ch == ';':
			l.skipLineComment()
		case isUseless(ch):
			l.advance()
		case isText(ch):
			tokens = append(tokens, l.readRun(KindText, isText))
		case isDigit(ch):
			tokens = append(tokens, l.readRun(KindText, isDigit))
		case isBrace(ch):
			tokens = append(tokens, Token{Kind: KindBraces, Value: string(ch), Pos: l.position()})
			l.advance()
		case isSpecial(ch):
			tokens = append(tokens, splitSpecial(l.readRun(KindText, isSpecial))...)
		default:
			return nil, l.unidentified()
		}
	}

	return tokens, nil
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.lineStart = l.pos
	}
	l.pos++
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column(l.pos)}
}

func (l *Lexer) column(offset int) int {
	if l.lineStart < 0 {
		return offset
	}
	return offset - l.lineStart
}

func (l *Lexer) readRun(kind TokenKind, accept func(byte) bool) Token {
	pos := l.position()
	start := l.pos
	for l.pos < len(l.input) && accept(l.input[l.pos]) {
		l.advance()
	}
	return Token{Kind: kind, Value: l.input[start:l.pos], Pos: pos}
}

// skipLineComment discards everything through the next newline inclusive.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance()
	}
	if l.pos < len(l.input) {
		l.advance()
	}
}

func (l *Lexer) unidentified() error {
	ch, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return &LexicalError{
		Line:   l.line,
		Column: l.column(l.pos),
		Offset: l.pos,
		Char:   ch,
	}
}

// splitSpecial breaks a run of special characters into punctuators when the
// whole run is made of them. Other runs are returned unchanged.
func splitSpecial(run Token) []Token {
	var parts []Token
	for i := 0; i < len(run.Value); {
		width := 0
		switch {
		case i+1 < len(run.Value) && run.Value[i:i+2] == OpConnect:
			width = 2
		case isPunctuator(run.Value[i]):
			width = 1
		default:
			return []Token{run}
		}
		pos := run.Pos
		pos.Offset += i
		pos.Column += i
		parts = append(parts, Token{Kind: run.Kind, Value: run.Value[i : i+width], Pos: pos})
		i += width
	}
	return parts
}

func isUseless(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isText(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isBrace(ch byte) bool {
	return ch == '{' || ch == '}'
}

func isSpecial(ch byte) bool {
	return ch == '[' || ch == '=' || ch == '>' || ch == ':' || ch == ',' || ch == ']'
}

func isPunctuator(ch byte) bool {
	return ch == '[' || ch == ']' || ch == ':' || ch == ','
}
