package content

func init() {
	Register(HTML{})
}

// HTML passes the input through, sanitized.
type HTML struct{}

func (HTML) Code() string {
	return "html"
}

func (HTML) Name() string {
	return "HTML document"
}

func (HTML) Render(input string) (string, error) {
	return Sanitize(input), nil
}
