package content

import (
	"strings"

	"golang.org/x/net/html"
)

// container elements which are dropped including their content
var dangerousContainers = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
}

// void elements which are dropped
var dangerousVoids = map[string]bool{
	"embed": true,
	"link":  true,
	"meta":  true,
}

// Sanitize removes script-capable elements, event handler attributes and
// javascript: URLs. Everything else passes through unchanged.
func Sanitize(input string) string {
	if input == "" {
		return ""
	}

	tokenizer := html.NewTokenizerFragment(strings.NewReader(input), "body")

	var out = &strings.Builder{}
	var skipUntil string // inside a dangerous container, the tag we wait for

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}

		tagNameBytes, hasAttr := tokenizer.TagName()
		tagName := string(tagNameBytes)

		if skipUntil != "" {
			if tt == html.EndTagToken && tagName == skipUntil {
				skipUntil = ""
			}
			continue
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if dangerousContainers[tagName] {
				if tt == html.StartTagToken {
					skipUntil = tagName
				}
				continue
			}
			if dangerousVoids[tagName] {
				continue
			}
			writeTag(out, tokenizer, tagName, hasAttr, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			if dangerousContainers[tagName] || dangerousVoids[tagName] {
				continue
			}
			out.WriteString("</" + tagName + ">")
		default:
			out.Write(tokenizer.Raw())
		}
	}

	return out.String()
}

func writeTag(out *strings.Builder, tokenizer *html.Tokenizer, tagName string, hasAttr bool, selfClosing bool) {

	out.WriteString("<" + tagName)

	for hasAttr {
		var key, value []byte
		key, value, hasAttr = tokenizer.TagAttr()

		var name = strings.ToLower(string(key))
		if strings.HasPrefix(name, "on") {
			continue
		}
		if isURLAttr(name) && isJavascriptURL(string(value)) {
			continue
		}

		out.WriteString(" " + name + `="` + html.EscapeString(string(value)) + `"`)
	}

	if selfClosing {
		out.WriteString("/>")
	} else {
		out.WriteString(">")
	}
}

func isURLAttr(name string) bool {
	switch name {
	case "href", "src", "action", "formaction", "data":
		return true
	}
	return false
}

func isJavascriptURL(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	// the tokenizer already decoded entities in attribute values
	return strings.HasPrefix(value, "javascript:")
}
