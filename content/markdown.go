package content

import (
	"gitlab.com/golang-commonmark/markdown"
)

var markdownParser = markdown.New(markdown.HTML(true), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

func init() {
	Register(Markdown{})
}

// Markdown translates CommonMark to HTML and sanitizes the result. The order
// is crucial: sanitizing first would not catch markup produced by the
// renderer itself.
type Markdown struct{}

func (Markdown) Code() string {
	return "markdown"
}

func (Markdown) Name() string {
	return "Markdown document"
}

func (Markdown) Render(input string) (string, error) {
	return Sanitize(markdownParser.RenderToString([]byte(input))), nil
}
