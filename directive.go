package mosaic

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Directive is a parsed embedding instruction: it knows which component to
// render and exactly what data that component sees when invoked from within
// a parent template. Its configuration is fixed at parse time; each Render
// call is an independent execution with no carried state, so a single
// Directive can safely be rendered from multiple goroutines.
type Directive struct {
	target    expr
	fallback  *expr
	extra     []binding
	isolated  bool
	targetVar string
}

// binding is one name=expression pair from a "with" clause.
type binding struct {
	name  string
	value expr
}

// ParseDirective parses the text of an embedding instruction, as it would
// appear inside a template tag:
//
//	<target> [fallback_render_method=<expr>] [with name=<expr> ...] [only] [as <variable>]
//
// The target is an expression yielding the component to render. Bindings
// after "with" are layered over the parent's data when the directive
// renders, with the explicit bindings winning; "only" instead builds a
// context holding nothing but those bindings. "as" stores the rendered
// output into the named parent variable instead of emitting it.
//
// Malformed instructions fail here, at template-compile time, with an error
// wrapping ErrSyntax; nothing is left to fail at render time but the
// rendering itself.
func ParseDirective(source string) (*Directive, error) {
	bits, err := splitTokens(source)
	if err != nil {
		return nil, err
	}
	if len(bits) < 1 {
		return nil, fmt.Errorf("%w: requires at least one argument, the component to render", ErrSyntax)
	}
	dir := &Directive{}
	dir.target, err = parseExpr(bits[0])
	if err != nil {
		return nil, err
	}
	bits = bits[1:]

	// the only keyword argument valid immediately after the target is
	// fallback_render_method
	for len(bits) > 0 {
		name, value, ok := splitKwarg(bits[0])
		if !ok {
			break
		}
		if name != "fallback_render_method" {
			return nil, fmt.Errorf("%w: only 'fallback_render_method' is accepted as a keyword argument, got %q", ErrSyntax, name)
		}
		parsed, err := parseExpr(value)
		if err != nil {
			return nil, err
		}
		dir.fallback = &parsed
		bits = bits[1:]
	}

	for len(bits) > 0 {
		bit := bits[0]
		bits = bits[1:]
		switch bit {
		case "with":
			for len(bits) > 0 {
				name, value, ok := splitKwarg(bits[0])
				if !ok {
					break
				}
				parsed, err := parseExpr(value)
				if err != nil {
					return nil, err
				}
				dir.extra = append(dir.extra, binding{name: name, value: parsed})
				bits = bits[1:]
			}
		case "only":
			dir.isolated = true
		case "as":
			if len(bits) < 1 {
				return nil, fmt.Errorf("%w: 'as' must be followed by a variable name", ErrSyntax)
			}
			dir.targetVar = bits[0]
			bits = bits[1:]
		default:
			return nil, fmt.Errorf("%w: unknown argument %q", ErrSyntax, bit)
		}
	}
	return dir, nil
}

// Render executes the directive against the parent template's current
// bindings. It resolves the target and the extra bindings, renders the
// target with the invocation context the directive's configuration calls
// for, and either emits the result or stores it in the parent context.
//
// Targets that implement ContextRenderable are rendered through RenderHTML
// and their output is treated as safe. Targets that only implement
// SimpleRenderable are rendered through Render, with no context, and only
// when the instruction set fallback_render_method to a truthy value; their
// output is escaped on emission unless the parent's autoescape is off.
// Anything else fails with ErrCannotRender.
func (d *Directive) Render(ctx context.Context, parent *Context) (template.HTML, error) {
	ctx, span := tracer().Start(ctx, "Directive.Render")
	defer span.End()
	span.SetAttributes(attribute.String("mosaic.target", strings.Join(d.target.path, ".")))

	if parent == nil {
		parent = NewContext(nil)
	}

	target, err := d.target.resolve(parent)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolving target")
		return "", fmt.Errorf("error resolving component: %w", err)
	}
	fallback := false
	if d.fallback != nil {
		val, err := d.fallback.resolve(parent)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "resolving fallback_render_method")
			return "", fmt.Errorf("error resolving fallback_render_method: %w", err)
		}
		fallback = isTrue(val)
	}
	values := map[string]any{}
	for _, bound := range d.extra {
		val, err := bound.value.resolve(parent)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "resolving extra context")
			return "", fmt.Errorf("error resolving %q: %w", bound.name, err)
		}
		values[bound.name] = val
	}

	// output is either safe HTML from a context render or plain text from
	// a fallback render; the distinction drives the escaping below
	var safe template.HTML
	var plain string
	var isSafe bool
	switch renderable := target.(type) {
	case ContextRenderable:
		isSafe = true
		if d.isolated {
			safe, err = renderable.RenderHTML(ctx, parent.New(values))
		} else {
			pop := parent.Push(values)
			safe, err = renderable.RenderHTML(ctx, parent)
			pop()
		}
	case SimpleRenderable:
		if !fallback {
			err = fmt.Errorf("%w: %v (%T)", ErrCannotRender, target, target)
			break
		}
		plain, err = renderable.Render(ctx)
	default:
		err = fmt.Errorf("%w: %v (%T)", ErrCannotRender, target, target)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rendering component")
		return "", err
	}

	if d.targetVar != "" {
		if isSafe {
			parent.Set(d.targetVar, safe)
		} else {
			parent.Set(d.targetVar, plain)
		}
		return "", nil
	}
	if isSafe {
		return safe, nil
	}
	if parent.autoescape() {
		return template.HTML(template.HTMLEscapeString(plain)), nil // #nosec G203
	}
	return template.HTML(plain), nil // #nosec G203
}

// splitTokens splits the instruction into space-separated tokens, keeping
// quoted runs (and quoted values inside name=value pairs) intact.
func splitTokens(source string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	var quote rune
	for _, char := range source {
		switch {
		case quote != 0:
			current.WriteRune(char)
			if char == quote {
				quote = 0
			}
		case char == '"' || char == '\'':
			quote = char
			current.WriteRune(char)
		case char == ' ' || char == '\t' || char == '\n':
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("%w: unterminated quote", ErrSyntax)
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}

// splitKwarg splits a name=value token, reporting whether the token has
// that shape at all.
func splitKwarg(token string) (name, value string, ok bool) {
	pos := strings.Index(token, "=")
	if pos < 1 {
		return "", "", false
	}
	name = token[:pos]
	if strings.ContainsAny(name, "\"'") {
		return "", "", false
	}
	return name, token[pos+1:], true
}
