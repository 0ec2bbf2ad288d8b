package spice

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// LibraryLexer tokenises SPICE library and netlist text. Lines starting
// with "*" are comments, ";" and "$" start inline comments and a line
// starting with "+" continues the previous one.
var LibraryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\*[^\n]*`},
	{Name: "InlineComment", Pattern: `[;$][^\n]*`},
	{Name: "Continuation", Pattern: `\n[^\S\n]*\+`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[^\S\n]+`},
	{Name: "Directive", Pattern: `\.[A-Za-z_]+`},
	{Name: "String", Pattern: `"[^"\n]*"`},
	{Name: "Word", Pattern: `[^\s]+`},
})

// Library is a parsed SPICE file
type Library struct {
	Statements []*Statement `( @@ | EOL )*`
}

// Statement is either a dot directive or an element card
type Statement struct {
	Directive *Directive `  @@`
	Card      *Card      `| @@`
}

// Directive is a dot command such as ".subckt NAME 1 2 3"
type Directive struct {
	Pos  lexer.Position
	Name string   `@Directive`
	Args []string `@( String | Word | Directive )*`
}

// Keyword returns the directive name without the dot, lower-cased
func (d *Directive) Keyword() string {
	return strings.ToLower(strings.TrimPrefix(d.Name, "."))
}

// Arg returns the i-th argument with surrounding quotes removed
func (d *Directive) Arg(i int) (string, bool) {
	if i < 0 || i >= len(d.Args) {
		return "", false
	}
	return strings.Trim(d.Args[i], `"`), true
}

// Card is an element line; the first word is the element name
type Card struct {
	Pos   lexer.Position
	Words []string `@( Word | String ) @( String | Word | Directive )*`
}

// Name returns the element name, e.g. "R1"
func (c *Card) Name() string {
	return c.Words[0]
}

var libraryParser = participle.MustBuild[Library](
	participle.Lexer(LibraryLexer),
	participle.Elide("Comment", "InlineComment", "Continuation", "Whitespace"),
)

// ParseLibrary parses SPICE text from a reader
func ParseLibrary(r io.Reader) (*Library, error) {
	lib, err := libraryParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return lib, nil
}

// ParseLibraryFile parses a SPICE library file
func ParseLibraryFile(filename string) (*Library, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	lib, err := libraryParser.Parse(filename, file)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return lib, nil
}

// Directives returns the directives with the given keyword (case-insensitive,
// without the dot) in file order
func (l *Library) Directives(keyword string) []*Directive {
	keyword = strings.ToLower(keyword)
	var out []*Directive
	for _, st := range l.Statements {
		if st.Directive != nil && st.Directive.Keyword() == keyword {
			out = append(out, st.Directive)
		}
	}
	return out
}

// Declares reports whether the library declares name with the given
// directive keyword ("subckt" or "model"). Names compare exactly.
func (l *Library) Declares(keyword, name string) bool {
	for _, d := range l.Directives(keyword) {
		if declared, ok := d.Arg(0); ok && declared == name {
			return true
		}
	}
	return false
}

// Cards returns the element cards in file order
func (l *Library) Cards() []*Card {
	var out []*Card
	for _, st := range l.Statements {
		if st.Card != nil {
			out = append(out, st.Card)
		}
	}
	return out
}

// ParseCards parses netlist text and returns its element cards. Dot
// directives, comments and control blocks are skipped.
func ParseCards(text string) ([]*Card, error) {
	lib, err := libraryParser.ParseString("", stripControl(text))
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return lib.Cards(), nil
}

// stripControl drops .control ... .endc blocks, whose lines are ngspice
// commands rather than cards
func stripControl(text string) string {
	var b strings.Builder
	inControl := false
	for _, line := range strings.Split(text, "\n") {
		switch strings.ToLower(strings.TrimSpace(line)) {
		case ".control":
			inControl = true
			continue
		case ".endc":
			inControl = false
			continue
		}
		if !inControl {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
