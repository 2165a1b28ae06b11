package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Node is a ProseMirror content node. Only the fields needed for plain-text
// extraction are mapped. Panel content may also arrive as a bare JSON
// string, in which case it is kept verbatim.
type Node struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Attrs   NodeAttrs `json:"attrs"`
	Content []Node    `json:"content"`

	raw string
}

// NodeAttrs carries the node attributes used during extraction.
type NodeAttrs struct {
	Level int `json:"level"`
}

func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = Node{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = Node{raw: s}
		return nil
	}
	type plain Node
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*n = Node(p)
	return nil
}

// PlainText renders the node tree as plain text. Headings become markdown
// style "# " lines, bullet list items "- " lines and ordered list items
// numbered lines.
func (n Node) PlainText() string {
	if n.raw != "" {
		return n.raw
	}
	var lines []string
	n.render(&lines, "")
	return strings.Join(lines, "\n")
}

func (n Node) render(lines *[]string, prefix string) {
	switch n.Type {
	case "heading":
		level := n.Attrs.Level
		if level < 1 {
			level = 1
		}
		n.appendLine(lines, strings.Repeat("#", level)+" ")
	case "paragraph":
		n.appendLine(lines, prefix)
	case "bulletList":
		for _, child := range n.Content {
			child.render(lines, "- ")
		}
	case "orderedList":
		for i, child := range n.Content {
			child.render(lines, fmt.Sprintf("%d. ", i+1))
		}
	default:
		for _, child := range n.Content {
			child.render(lines, prefix)
		}
	}
}

func (n Node) appendLine(lines *[]string, prefix string) {
	text := n.inlineText()
	if text == "" {
		return
	}
	*lines = append(*lines, prefix+text)
}

// inlineText concatenates all descendant text nodes.
func (n Node) inlineText() string {
	if n.Type == "text" {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Content {
		b.WriteString(child.inlineText())
	}
	return b.String()
}
