// SPDX-License-Identifier: Apache-2.0

// Package htmlutil holds the little bit of HTML-tree walking that parsing a
// package index's simple-repository-API pages calls for.
package htmlutil

import (
	"golang.org/x/net/html"
)

// VisitHTML walks the node's subtree depth-first, calling before on the way
// down and after on the way back up.  Either callback may be nil; the first
// error stops the walk.
func VisitHTML(node *html.Node, before, after func(*html.Node) error) error {
	if before != nil {
		if err := before(node); err != nil {
			return err
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := VisitHTML(child, before, after); err != nil {
			return err
		}
	}
	if after != nil {
		if err := after(node); err != nil {
			return err
		}
	}
	return nil
}

// GetAttr returns the value of the named attribute, reporting whether the
// node has it at all.
func GetAttr(node *html.Node, namespace, name string) (val string, ok bool) {
	if node == nil {
		return "", false
	}
	for _, attr := range node.Attr {
		if attr.Namespace == namespace && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}
