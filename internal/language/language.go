// Package language holds the closed SansScript vocabularies: keywords,
// builtin functions, constants and logical operators, each with the
// documentation shown by completion and hover.
package language

// Kind classifies a word against the vocabularies.
type Kind int

const (
	Identifier Kind = iota // Not part of any vocabulary.
	Keyword
	Builtin
	Constant
	LogicalOp
)

// Keyword names used by the analyzer.
const (
	If       = "यदि"
	Elif     = "अथवा_यदि"
	Else     = "अन्यथा"
	While    = "यावत्"
	Function = "कार्यम्"
	Return   = "प्रतिददाति"
	Break    = "विरम"
	Continue = "अनुवर्तय"
)

type KeywordInfo struct {
	Name    string
	English string
	Doc     string
	Snippet string
}

type BuiltinInfo struct {
	Name       string
	English    string
	Doc        string
	Params     []string
	ReturnType string
}

// WordInfo describes a constant or a logical operator.
type WordInfo struct {
	Name string
	Doc  string
}

var keywords = []KeywordInfo{
	{If, "if", "Conditional branch. Body must be indented.", "यदि ${1:condition}:\n\t${2:body}"},
	{Elif, "elif", "Else-if branch. Must follow a यदि or another अथवा_यदि block.", "अथवा_यदि ${1:condition}:\n\t${2:body}"},
	{Else, "else", "Else branch. Must follow a यदि or अथवा_यदि block.", "अन्यथा:\n\t${1:body}"},
	{While, "while", "While loop. Body must be indented.", "यावत् ${1:condition}:\n\t${2:body}"},
	{Function, "function", "Function definition. Parameters in parentheses, body indented.", "कार्यम् ${1:name}(${2:params}):\n\t${3:body}"},
	{Return, "return", "Return a value from a function.", "प्रतिददाति ${1:value}"},
	{Break, "break", "Break out of the current loop.", ""},
	{Continue, "continue", "Skip to the next iteration of the current loop.", ""},
}

var builtins = []BuiltinInfo{
	{"मुद्रय", "print", "Print a value followed by a newline.", []string{"value"}, "none"},
	{"निर्गम", "exit", "Exit the programme with the given status code.", []string{"code"}, "none"},
	{"दीर्घता", "length", "Return the length of a string (in characters) or list.", []string{"value"}, "int"},
	{"योजय", "append", "Append an element to a list (mutates the list).", []string{"list", "element"}, "none"},
	{"उपपाठ", "substring / sublist", "Return a substring (by character indices) or sublist. End is exclusive.", []string{"value", "start", "end"}, "str|list"},
	{"अन्वेषय", "find", "Find the character offset of needle in haystack (-1 if not found).", []string{"haystack", "needle"}, "int"},
	{"वर्णाङ्क", "char_code", "Return the Unicode code-point of the first character of a string.", []string{"string"}, "int"},
	{"अंकवर्ण", "from_char_code", "Return a one-character string from a Unicode code-point.", []string{"code_point"}, "str"},
	{"पाठ्य", "to_string", "Convert a value to its string representation.", []string{"value"}, "str"},
	{"पूर्णाङ्क", "to_int", "Convert a value to an integer.", []string{"value"}, "int"},
	{"पूर्णाङ्क_पाठ_से", "parse_int", "Parse an integer from a string (supports Devanagari digits).", []string{"string"}, "int"},
	{"विभज", "split", "Split a string by a delimiter, returning a list of strings.", []string{"string", "delimiter"}, "list"},
	{"सञ्चिका_पठ", "read_file", "Read the entire contents of a file as a string.", []string{"path"}, "str"},
}

var constants = []WordInfo{
	{"सत्यम्", "true: Boolean true"},
	{"असत्यम्", "false: Boolean false"},
}

var logicalOps = []WordInfo{
	{"च", "and: Logical AND"},
	{"वा", "or: Logical OR"},
	{"न", "not: Logical NOT (prefix)"},
}

var blockOpeners = map[string]struct{}{
	If: {}, Elif: {}, Else: {}, While: {}, Function: {},
}

var (
	keywordIndex  = make(map[string]*KeywordInfo, len(keywords))
	builtinIndex  = make(map[string]*BuiltinInfo, len(builtins))
	constantIndex = make(map[string]*WordInfo, len(constants))
	logicalIndex  = make(map[string]*WordInfo, len(logicalOps))
)

func init() {
	for i := range keywords {
		keywordIndex[keywords[i].Name] = &keywords[i]
	}
	for i := range builtins {
		builtinIndex[builtins[i].Name] = &builtins[i]
	}
	for i := range constants {
		constantIndex[constants[i].Name] = &constants[i]
	}
	for i := range logicalOps {
		logicalIndex[logicalOps[i].Name] = &logicalOps[i]
	}
}

// Classify checks word against the vocabularies in priority order:
// keyword, builtin, constant, logical operator.
func Classify(word string) Kind {
	switch {
	case IsKeyword(word):
		return Keyword
	case IsBuiltin(word):
		return Builtin
	case IsConstant(word):
		return Constant
	case IsLogicalOp(word):
		return LogicalOp
	}
	return Identifier
}

func IsKeyword(word string) bool {
	_, ok := keywordIndex[word]
	return ok
}

func IsBuiltin(word string) bool {
	_, ok := builtinIndex[word]
	return ok
}

func IsConstant(word string) bool {
	_, ok := constantIndex[word]
	return ok
}

func IsLogicalOp(word string) bool {
	_, ok := logicalIndex[word]
	return ok
}

// IsBlockOpener reports whether word starts an indented body.
func IsBlockOpener(word string) bool {
	_, ok := blockOpeners[word]
	return ok
}

func LookupKeyword(word string) (KeywordInfo, bool) {
	if k, ok := keywordIndex[word]; ok {
		return *k, true
	}
	return KeywordInfo{}, false
}

func LookupBuiltin(word string) (BuiltinInfo, bool) {
	if b, ok := builtinIndex[word]; ok {
		return *b, true
	}
	return BuiltinInfo{}, false
}

func LookupConstant(word string) (WordInfo, bool) {
	if c, ok := constantIndex[word]; ok {
		return *c, true
	}
	return WordInfo{}, false
}

func LookupLogicalOp(word string) (WordInfo, bool) {
	if l, ok := logicalIndex[word]; ok {
		return *l, true
	}
	return WordInfo{}, false
}

// Keywords returns the keywords in declaration order.
func Keywords() []KeywordInfo {
	return append([]KeywordInfo(nil), keywords...)
}

// Builtins returns the builtin functions in declaration order.
func Builtins() []BuiltinInfo {
	return append([]BuiltinInfo(nil), builtins...)
}

func Constants() []WordInfo {
	return append([]WordInfo(nil), constants...)
}

func LogicalOps() []WordInfo {
	return append([]WordInfo(nil), logicalOps...)
}
