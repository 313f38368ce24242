package templating

import "strings"

type NodeKind int

const (
	NodeText NodeKind = iota
	NodeVariable
	NodeIf
	NodeRoot
)

// Node is one element of a parsed template.
type Node struct {
	Kind     NodeKind
	Text     string // literal text for NodeText
	Name     string // variable or condition name
	Children []*Node
}

// ParseOptions controls which tags are recognised.
type ParseOptions struct {
	// Conditionals enables {{#if}} blocks. Subjects are parsed without them.
	Conditionals bool
}

const (
	openDelim  = "{{"
	closeDelim = "}}"
	ifPrefix   = "#if "
	endIf      = "/if"
)

type tokenKind int

const (
	tokText tokenKind = iota
	tokVar
	tokIf
	tokEndIf
)

type token struct {
	kind tokenKind
	raw  string
	name string
}

// Parse builds the node tree for src. It never fails: tags that do not
// form a valid construct are kept as literal text.
func Parse(src string, opts ParseOptions) *Node {
	root := &Node{Kind: NodeRoot}
	stack := []*Node{root}
	// opening tag text for each open conditional, parallel to stack[1:]
	var openRaw []string

	appendText := func(n *Node, text string) {
		if text == "" {
			return
		}
		if last := lastChild(n); last != nil && last.Kind == NodeText {
			last.Text += text
			return
		}
		n.Children = append(n.Children, &Node{Kind: NodeText, Text: text})
	}

	for _, tok := range lex(src, opts) {
		top := stack[len(stack)-1]
		switch tok.kind {
		case tokText:
			appendText(top, tok.raw)
		case tokVar:
			top.Children = append(top.Children, &Node{Kind: NodeVariable, Name: tok.name})
		case tokIf:
			n := &Node{Kind: NodeIf, Name: tok.name}
			top.Children = append(top.Children, n)
			stack = append(stack, n)
			openRaw = append(openRaw, tok.raw)
		case tokEndIf:
			if len(stack) == 1 {
				appendText(top, tok.raw)
				continue
			}
			stack = stack[:len(stack)-1]
			openRaw = openRaw[:len(openRaw)-1]
		}
	}

	// Unterminated conditionals unwind innermost first: the opening tag
	// becomes text and the block's children move up into the parent.
	for len(stack) > 1 {
		n := stack[len(stack)-1]
		raw := openRaw[len(openRaw)-1]
		stack = stack[:len(stack)-1]
		openRaw = openRaw[:len(openRaw)-1]

		parent := stack[len(stack)-1]
		parent.Children = parent.Children[:len(parent.Children)-1]
		appendText(parent, raw)
		for _, child := range n.Children {
			if child.Kind == NodeText {
				appendText(parent, child.Text)
				continue
			}
			parent.Children = append(parent.Children, child)
		}
	}

	return root
}

func lastChild(n *Node) *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

func lex(src string, opts ParseOptions) []token {
	var tokens []token
	for len(src) > 0 {
		start := strings.Index(src, openDelim)
		if start == -1 {
			tokens = append(tokens, token{kind: tokText, raw: src})
			break
		}
		if start > 0 {
			tokens = append(tokens, token{kind: tokText, raw: src[:start]})
			src = src[start:]
		}

		end := strings.Index(src[len(openDelim):], closeDelim)
		if end == -1 {
			tokens = append(tokens, token{kind: tokText, raw: src})
			break
		}
		inner := src[len(openDelim) : len(openDelim)+end]
		raw := src[:len(openDelim)+end+len(closeDelim)]

		tok, ok := classify(inner, raw, opts)
		if !ok {
			// Not a tag: emit one brace and rescan so "{{{x}}" still finds {{x}}.
			tokens = append(tokens, token{kind: tokText, raw: src[:1]})
			src = src[1:]
			continue
		}
		tokens = append(tokens, tok)
		src = src[len(raw):]
	}
	return tokens
}

func classify(inner, raw string, opts ParseOptions) (token, bool) {
	if opts.Conditionals {
		if inner == endIf {
			return token{kind: tokEndIf, raw: raw}, true
		}
		if strings.HasPrefix(inner, ifPrefix) {
			name := inner[len(ifPrefix):]
			if isIdentifier(name) {
				return token{kind: tokIf, raw: raw, name: name}, true
			}
			return token{}, false
		}
	}
	if isIdentifier(inner) && inner[0] != '#' && inner[0] != '/' {
		return token{kind: tokVar, raw: raw, name: inner}, true
	}
	return token{}, false
}

// isIdentifier accepts any non-empty name without whitespace or braces.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '{', '}':
			return false
		}
	}
	return true
}

// Placeholders lists the variable and condition names used in a body, in
// order of first appearance.
func Placeholders(src string) []string {
	return placeholders(src, ParseOptions{Conditionals: true})
}

func placeholders(src string, opts ParseOptions) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Children {
			if child.Kind == NodeVariable || child.Kind == NodeIf {
				if !seen[child.Name] {
					seen[child.Name] = true
					names = append(names, child.Name)
				}
			}
			walk(child)
		}
	}
	walk(Parse(src, opts))
	return names
}
