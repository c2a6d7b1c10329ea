// Package content renders news article bodies. An article is authored in one
// of the registered formats and always sanitized before it is stored or
// shown.
package content

import (
	"sort"
)

type Renderer interface {
	Code() string // stable identifier, e.g. "markdown"
	Name() string // human readable
	Render(input string) (string, error)
}

type Registry map[string]Renderer

func (reg Registry) Add(renderer Renderer) {
	reg[renderer.Code()] = renderer
}

func (reg Registry) All() []string {
	var all = make([]string, 0, len(reg))
	for code := range reg {
		all = append(all, code)
	}
	sort.Strings(all)
	return all
}

func (reg Registry) Get(code string) (Renderer, bool) {
	renderer, ok := reg[code]
	return renderer, ok
}

var DefaultRegistry = make(Registry)

func Register(renderer Renderer) {
	DefaultRegistry.Add(renderer)
}
