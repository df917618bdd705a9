// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package sitemod

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Structural edits go through a parse-mutate-serialize pass over the
// document tree. Regex substitution is reserved for the narrow, marker-
// guarded insertions in FragmentRule; deleting sections or injecting
// attributes with regexes breaks on nested tags.

// RemoveSections deletes every element with the given tag carrying the given
// class, returning the re-serialized document and the removal count.
func RemoveSections(doc, tag, class string) (string, int, error) {
	return rewrite(doc, func(n *html.Node) treeOp {
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
			return opRemove
		}
		return opKeep
	})
}

// SetAttribute sets key=value on every element with the given tag, replacing
// any existing value. Re-running is a no-op once the value is in place.
func SetAttribute(doc, tag, key, value string) (string, int, error) {
	return rewrite(doc, func(n *html.Node) treeOp {
		if n.Type != html.ElementNode || n.Data != tag {
			return opKeep
		}
		for i, attr := range n.Attr {
			if attr.Key == key {
				if attr.Val == value {
					return opKeep
				}
				n.Attr[i].Val = value
				return opTouched
			}
		}
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
		return opTouched
	})
}

type treeOp int

const (
	opKeep treeOp = iota
	opRemove
	opTouched
)

// rewrite parses the document, applies visit to every node, and serializes
// the result. The count is the number of removed or touched nodes.
func rewrite(doc string, visit func(*html.Node) treeOp) (string, int, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return doc, 0, err
	}

	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		child := n.FirstChild
		for child != nil {
			next := child.NextSibling
			switch visit(child) {
			case opRemove:
				n.RemoveChild(child)
				count++
			case opTouched:
				count++
				walk(child)
			default:
				walk(child)
			}
			child = next
		}
	}
	walk(root)

	if count == 0 {
		return doc, 0, nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return doc, 0, err
	}
	return buf.String(), count, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
