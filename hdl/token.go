package hdl

// TokenKind represents the class of a token produced by the lexer.
type TokenKind uint8

const (
	KindText TokenKind = iota
	KindBraces
	KindOperator
)

var kindNames = map[TokenKind]string{
	KindText:     "TEXT",
	KindBraces:   "BRACES",
	KindOperator: "OPERATOR",
}

// String returns the string representation of a token kind.
func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Position locates a token in the source text.
// Line is 1-based. Column follows the lexical error convention: the distance
// from the previous newline, or the absolute offset on the first line.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Token represents a lexical token of the hardware description language.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   Position
}

// Gate and connection operators.
const (
	OpAnd     = "and"
	OpNand    = "nand"
	OpOr      = "or"
	OpNor     = "nor"
	OpXor     = "xor"
	OpXnor    = "xnor"
	OpConnect = "=>"
)

// Operator precedence levels. Gates bind tighter than connections.
const (
	_ int = iota
	CONNECT
	GATE
)

var precedences = map[string]int{
	OpAnd:     GATE,
	OpNand:    GATE,
	OpOr:      GATE,
	OpNor:     GATE,
	OpXor:     GATE,
	OpXnor:    GATE,
	OpConnect: CONNECT,
}

// IsOperator reports whether value is a gate or connection operator.
func IsOperator(value string) bool {
	_, ok := precedences[value]
	return ok
}

// Precedence returns the binding strength of an operator, or 0 for non-operators.
func Precedence(op string) int {
	return precedences[op]
}

// IsGate reports whether op is one of the two-input boolean gates.
func IsGate(op string) bool {
	return precedences[op] == GATE
}

// Block keywords.
const (
	KeywordComponent = "component"
	KeywordGlobal    = "global"
	KeywordLogic     = "logic"
	KeywordPublic    = "public"
	KeywordPrivate   = "private"
	KeywordPipeline  = "pipeline"
)

// reservedWords lists every value that may not be used as a user identifier.
var reservedWords = map[string]struct{}{
	"{": {}, "}": {},
	OpAnd: {}, OpNand: {}, OpOr: {}, OpNor: {}, OpXor: {}, OpXnor: {}, OpConnect: {},
	":": {}, ",": {}, "[": {}, "]": {},
	KeywordComponent: {}, KeywordGlobal: {}, KeywordLogic: {},
	KeywordPublic: {}, KeywordPrivate: {}, KeywordPipeline: {},
	string(DatatypeInput): {}, string(DatatypeOutput): {}, string(DatatypeWire): {},
}

// IsReserved reports whether value is a reserved keyword, operator or punctuator.
func IsReserved(value string) bool {
	_, ok := reservedWords[value]
	return ok
}

// ClassifyOperators retags tokens whose value is exactly an operator as KindOperator.
// The slice is modified in place and returned.
func ClassifyOperators(tokens []Token) []Token {
	for i := range tokens {
		if IsOperator(tokens[i].Value) {
			tokens[i].Kind = KindOperator
		}
	}
	return tokens
}
