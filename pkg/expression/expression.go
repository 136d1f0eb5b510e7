// Package expression parses and builds the reference expressions used by report bindings
package expression

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Reference prefixes understood by the planner
const (
	PrefixDimension = "dimension"
	PrefixMeasure   = "measure"
	PrefixData      = "data"
	PrefixRow       = "row"
)

var (
	// ErrInvalidLevelName is returned when a full level name is not in "dimension/level" form
	ErrInvalidLevelName = errors.New("invalid level name, expected dimension/level")
)

// Kind identifies what a reference expression points at
type Kind int

const (
	// KindNone is any expression that is not a single reference
	KindNone Kind = iota
	// KindDimension is a dimension["D"]["L"] level reference
	KindDimension
	// KindMeasure is a measure["M"] reference
	KindMeasure
	// KindBinding is a data["B"] or row["B"] reference
	KindBinding
)

func (k Kind) String() string {
	switch k {
	case KindDimension:
		return "dimension"
	case KindMeasure:
		return "measure"
	case KindBinding:
		return "binding"
	default:
		return "none"
	}
}

// Reference is a parsed reference expression
type Reference struct {
	Kind      Kind
	Dimension string
	Level     string
	Attribute string
	Measure   string
	Binding   string
}

//nolint:gochecknoglobals // Lexer and parser are immutable after construction
var (
	exprLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Char", Pattern: `'(\\'|[^'])*'`},
		{Name: "Number", Pattern: `\d+(\.\d+)?`},
		{Name: "Ident", Pattern: `[a-zA-Z_$][\w$]*`},
		{Name: "Punct", Pattern: `[-\[\](){}.,;:?!+*/%<>=&|^~]`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Other", Pattern: `.`},
	})

	referenceParser = participle.MustBuild[referenceAST](
		participle.Lexer(exprLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)
)

type referenceAST struct {
	Prefix string   `parser:"@Ident"`
	Keys   []string `parser:"( '[' @String ']' )+"`
}

// Parse parses text as a single reference expression. Text that is not exactly one reference
// (arithmetic, literals, script calls) yields a KindNone reference.
func Parse(text string) Reference {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reference{}
	}

	ast, err := referenceParser.ParseString("", text)
	if err != nil {
		return Reference{}
	}

	return fromAST(ast)
}

func fromAST(ast *referenceAST) Reference {
	switch ast.Prefix {
	case PrefixDimension:
		if len(ast.Keys) < 2 || len(ast.Keys) > 3 {
			return Reference{}
		}
		ref := Reference{Kind: KindDimension, Dimension: ast.Keys[0], Level: ast.Keys[1]}
		if len(ast.Keys) == 3 {
			ref.Attribute = ast.Keys[2]
		}
		return ref
	case PrefixMeasure:
		if len(ast.Keys) != 1 {
			return Reference{}
		}
		return Reference{Kind: KindMeasure, Measure: ast.Keys[0]}
	case PrefixData, PrefixRow:
		if len(ast.Keys) != 1 {
			return Reference{}
		}
		return Reference{Kind: KindBinding, Binding: ast.Keys[0]}
	default:
		return Reference{}
	}
}

// BindingName returns the name of the binding referenced by text. With allowOperations the first
// binding referenced anywhere in the text is returned (e.g. data["x"] * 2); otherwise the whole
// text must be a single binding reference. Returns "" when there is none.
func BindingName(text string, allowOperations bool) string {
	if !allowOperations {
		ref := Parse(text)
		if ref.Kind == KindBinding {
			return ref.Binding
		}
		return ""
	}

	refs := scanReferences(text)
	for _, ref := range refs {
		if ref.Kind == KindBinding {
			return ref.Binding
		}
	}

	return ""
}

// BindingNames returns every distinct binding referenced anywhere in text, in order of appearance
func BindingNames(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, ref := range scanReferences(text) {
		if ref.Kind != KindBinding || seen[ref.Binding] {
			continue
		}
		seen[ref.Binding] = true
		names = append(names, ref.Binding)
	}

	return names
}

// IsBinding reports whether text references a binding, see BindingName
func IsBinding(text string, allowOperations bool) bool {
	return BindingName(text, allowOperations) != ""
}

// MeasureName returns the measure referenced by text when text is exactly one measure reference
func MeasureName(text string) string {
	ref := Parse(text)
	if ref.Kind == KindMeasure {
		return ref.Measure
	}
	return ""
}

// IsDimension reports whether text is exactly one level reference
func IsDimension(text string) bool {
	ref := Parse(text)
	return ref.Kind == KindDimension
}

// LevelNames returns the dimension and level named by a level reference
func LevelNames(text string) (dimension, level string, ok bool) {
	ref := Parse(text)
	if ref.Kind != KindDimension {
		return "", "", false
	}
	return ref.Dimension, ref.Level, true
}

// scanReferences tokenises text and returns every prefix["key"]... sequence it contains
func scanReferences(text string) []Reference {
	lex, err := exprLexer.Lex("", strings.NewReader(text))
	if err != nil {
		return nil
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil
	}

	symbols := exprLexer.Symbols()
	identType := symbols["Ident"]
	stringType := symbols["String"]
	whitespaceType := symbols["Whitespace"]

	filtered := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == whitespaceType || tok.EOF() {
			continue
		}
		filtered = append(filtered, tok)
	}

	refs := []Reference{}
	for i := 0; i < len(filtered); i++ {
		if filtered[i].Type != identType {
			continue
		}
		// A member access such as foo.data["x"] is not a reference
		if i > 0 && filtered[i-1].Value == "." {
			continue
		}

		ast := &referenceAST{Prefix: filtered[i].Value}
		j := i + 1
		for j+2 < len(filtered) &&
			filtered[j].Value == "[" &&
			filtered[j+1].Type == stringType &&
			filtered[j+2].Value == "]" {
			key, unquoteErr := strconv.Unquote(filtered[j+1].Value)
			if unquoteErr != nil {
				break
			}
			ast.Keys = append(ast.Keys, key)
			j += 3
		}

		if len(ast.Keys) == 0 {
			continue
		}

		if ref := fromAST(ast); ref.Kind != KindNone {
			refs = append(refs, ref)
		}
		i = j - 1
	}

	return refs
}

// Dimension builds a level reference expression
func Dimension(dimension, level string) string {
	return fmt.Sprintf("%s[%s][%s]", PrefixDimension, strconv.Quote(dimension), strconv.Quote(level))
}

// Measure builds a measure reference expression
func Measure(name string) string {
	return fmt.Sprintf("%s[%s]", PrefixMeasure, strconv.Quote(name))
}

// Data builds a binding reference expression
func Data(name string) string {
	return fmt.Sprintf("%s[%s]", PrefixData, strconv.Quote(name))
}

// SplitLevelName splits a full level name of the form "dimension/level"
func SplitLevelName(fullName string) (dimension, level string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidLevelName, fullName)
	}

	return parts[0], parts[1], nil
}

// JoinLevelName is the inverse of SplitLevelName
func JoinLevelName(dimension, level string) string {
	return dimension + "/" + level
}
