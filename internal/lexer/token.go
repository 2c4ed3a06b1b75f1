package lexer

// Kind is the lexical class of a token.
type Kind int

const (
	Keyword Kind = iota
	Builtin
	Constant
	LogicalOp
	Identifier
	Number
	String
	Operator
	ParenOpen
	ParenClose
	BracketOpen
	BracketClose
	Comma
	Colon
	Comment
	Whitespace
	Unknown
)

var kindNames = [...]string{
	Keyword:      "keyword",
	Builtin:      "builtin",
	Constant:     "constant",
	LogicalOp:    "logical-op",
	Identifier:   "identifier",
	Number:       "number",
	String:       "string",
	Operator:     "operator",
	ParenOpen:    "paren-open",
	ParenClose:   "paren-close",
	BracketOpen:  "bracket-open",
	BracketClose: "bracket-close",
	Comma:        "comma",
	Colon:        "colon",
	Comment:      "comment",
	Whitespace:   "whitespace",
	Unknown:      "unknown",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Token is one classified span of a line. Start and End are UTF-16
// columns; End is exclusive.
type Token struct {
	Kind  Kind
	Text  string
	Line  int
	Start int
	End   int
}

// Len returns the width of the token in columns.
func (t Token) Len() int {
	return t.End - t.Start
}

// Contains reports whether col falls inside [Start, End).
func (t Token) Contains(col int) bool {
	return t.Start <= col && col < t.End
}

// IsSignificant reports whether the token carries meaning, i.e. it is
// neither whitespace nor a comment.
func (t Token) IsSignificant() bool {
	return t.Kind != Whitespace && t.Kind != Comment
}

// Significant filters out whitespace and comment tokens.
func Significant(tokens []Token) []Token {
	sig := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.IsSignificant() {
			sig = append(sig, t)
		}
	}
	return sig
}
