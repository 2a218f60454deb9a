package diag

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Context is a range of text in a source, along with the line and column of
// its start. It is attached to every error that can be associated with a part
// of a script.
type Context struct {
	Name   string
	Source string
	Ranging
	Line   int
	Column int
}

// NewContext creates a new Context. The line and column are derived from the
// start of r.
func NewContext(name, source string, r Ranger) *Context {
	rg := r.Range()
	line, col := Position(source, rg.From)
	return &Context{name, source, rg, line, col}
}

// Variables controlling the style of the culprit.
var (
	culpritLineBegin   = "\033[1;4m"
	culpritLineEnd     = "\033[m"
	culpritPlaceHolder = "^"
)

// Show shows the Context: its name and line, then the relevant source lines
// on a new line prefixed by sourceIndent.
func (c *Context) Show(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	return c.describe() + "\n" + sourceIndent + c.relevantSource(sourceIndent)
}

// ShowCompact is like Show, but puts the relevant source on the same line as
// the description.
func (c *Context) ShowCompact(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	desc := c.describe() + " "
	descIndent := strings.Repeat(" ", utf8.RuneCountInString(desc))
	return desc + c.relevantSource(sourceIndent+descIndent)
}

func (c *Context) checkPosition() error {
	if c.From == -1 {
		return fmt.Errorf("%s, unknown position", c.Name)
	} else if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

func (c *Context) describe() string {
	return fmt.Sprintf("%s:%d:%d:", c.Name, c.Line, c.Column)
}

func (c *Context) relevantSource(sourceIndent string) string {
	before := c.Source[:c.From]
	culprit := c.Source[c.From:c.To]
	after := c.Source[c.To:]

	head := before[strings.LastIndexByte(before, '\n')+1:]
	var tail string
	if strings.HasSuffix(culprit, "\n") {
		culprit = culprit[:len(culprit)-1]
	} else {
		tail = firstLine(after)
	}
	if culprit == "" {
		culprit = culpritPlaceHolder
	}

	var sb strings.Builder
	sb.WriteString(head)
	for i, line := range strings.Split(culprit, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(sourceIndent)
		}
		sb.WriteString(culpritLineBegin)
		sb.WriteString(line)
		sb.WriteString(culpritLineEnd)
	}
	sb.WriteString(tail)
	return sb.String()
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}
