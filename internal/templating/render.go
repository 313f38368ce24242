package templating

import "strings"

// Render merges ctx into tpl. Subjects get substitution only; bodies also
// evaluate conditional blocks. A variable missing from ctx renders empty when
// the template declares it and is kept verbatim otherwise.
func Render(tpl TemplateDefinition, ctx RenderContext) Rendered {
	declared := make(map[string]bool, len(tpl.Variables))
	for _, v := range tpl.Variables {
		declared[v] = true
	}

	return Rendered{
		Subject: renderString(tpl.Subject, ctx, declared, ParseOptions{}),
		Body:    renderString(tpl.Body, ctx, declared, ParseOptions{Conditionals: true}),
	}
}

func renderString(src string, ctx RenderContext, declared map[string]bool, opts ParseOptions) string {
	var sb strings.Builder
	sb.Grow(len(src))
	renderNodes(&sb, Parse(src, opts).Children, ctx, declared)
	return sb.String()
}

func renderNodes(sb *strings.Builder, nodes []*Node, ctx RenderContext, declared map[string]bool) {
	for _, n := range nodes {
		switch n.Kind {
		case NodeText:
			sb.WriteString(n.Text)
		case NodeVariable:
			if v, ok := ctx[n.Name]; ok {
				sb.WriteString(v)
			} else if !declared[n.Name] {
				sb.WriteString(openDelim + n.Name + closeDelim)
			}
		case NodeIf:
			if Truthy(ctx, n.Name) {
				renderNodes(sb, n.Children, ctx, declared)
			}
		}
	}
}

// Truthy reports whether ctx[name] switches a conditional block on.
func Truthy(ctx RenderContext, name string) bool {
	v, ok := ctx[name]
	if !ok {
		return false
	}
	switch v {
	case "", "0", "false":
		return false
	}
	return true
}
