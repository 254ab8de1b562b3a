package doctree

import (
	"io"
	"strings"
)

// Serialize renders n as markup.
//
// An element without children renders as <name a=b/>; with children as
// <name a=b>...</name>. Attributes keep insertion order and are written as
// key=value with no quoting or escaping. Text is written verbatim, comments
// as <!--text-->, and concatenations as their children back to back.
func Serialize(n Node) string {
	var sb strings.Builder
	write(&sb, n)
	return sb.String()
}

// Render writes the serialization of n to w.
func Render(w io.Writer, n Node) error {
	var sb strings.Builder
	write(&sb, n)
	_, err := io.WriteString(w, sb.String())
	return err
}

func write(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Element:
		if v == nil {
			return
		}
		sb.WriteByte('<')
		sb.WriteString(v.Name)
		for _, a := range v.Attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.Key)
			sb.WriteByte('=')
			sb.WriteString(a.Value)
		}
		if len(v.Children) == 0 {
			sb.WriteString("/>")
			return
		}
		sb.WriteByte('>')
		for _, c := range v.Children {
			write(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(v.Name)
		sb.WriteByte('>')
	case Text:
		sb.WriteString(string(v))
	case Comment:
		sb.WriteString("<!--")
		sb.WriteString(string(v))
		sb.WriteString("-->")
	case *Concat:
		if v == nil {
			return
		}
		for _, c := range v.Children {
			write(sb, c)
		}
	}
}

// TextContent returns the concatenated text leaves under n, ignoring
// markup and comments.
func TextContent(n Node) string {
	var sb strings.Builder
	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(n, func(node Node) error {
		if t, ok := node.(Text); ok {
			sb.WriteString(string(t))
		}
		return nil
	})
	return sb.String()
}
