package mosaic

import "maps"

// Context is the data mapping supplied to a component when it renders. It is
// a stack of scopes, like the variable bindings of the template that is doing
// the embedding: the Directive pushes its explicit bindings as a new scope so
// they win over inherited ones without disturbing the parent's own data, and
// pops them when the nested render is done.
//
// A nil *Context is a valid empty context for every read operation, so
// callers that have no parent data can just pass nil.
type Context struct {
	// Autoescape controls whether text that isn't already marked safe
	// gets HTML-escaped when a Directive emits it in this scope. It is on
	// by default, matching html/template's behavior.
	Autoescape bool

	scopes []map[string]any
}

// NewContext returns a Context seeded with the passed values. The values map
// is copied, so later changes to it don't leak into the context.
func NewContext(values map[string]any) *Context {
	ctx := &Context{Autoescape: true}
	ctx.scopes = []map[string]any{cloneScope(values)}
	return ctx
}

// New returns a fresh Context containing only the passed values, inheriting
// nothing from c except the autoescape setting. It's what "only" uses to
// build an isolated invocation context.
func (c *Context) New(values map[string]any) *Context {
	next := NewContext(values)
	if c != nil {
		next.Autoescape = c.Autoescape
	}
	return next
}

// Get returns the value bound to name, searching the most recently pushed
// scope first. The second return reports whether the name is bound at all.
func (c *Context) Get(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	for pos := len(c.scopes) - 1; pos >= 0; pos-- {
		if val, ok := c.scopes[pos][name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Set binds name to value in the most recently pushed scope.
func (c *Context) Set(name string, value any) {
	if len(c.scopes) < 1 {
		c.scopes = []map[string]any{{}}
	}
	c.scopes[len(c.scopes)-1][name] = value
}

// Push layers a new scope containing the passed values on top of the
// existing bindings. It returns the function that removes the scope again;
// callers should defer it or call it as soon as the nested render is done.
func (c *Context) Push(values map[string]any) func() {
	c.scopes = append(c.scopes, cloneScope(values))
	return func() {
		if len(c.scopes) > 0 {
			c.scopes = c.scopes[:len(c.scopes)-1]
		}
	}
}

// Flatten collapses the scope stack into a single map, with values in more
// recently pushed scopes winning. It's what actually gets handed to the
// template engine.
func (c *Context) Flatten() map[string]any {
	flat := map[string]any{}
	if c == nil {
		return flat
	}
	for _, scope := range c.scopes {
		maps.Copy(flat, scope)
	}
	return flat
}

// autoescape reports the effective autoescape setting, treating a nil
// context as escaping enabled.
func (c *Context) autoescape() bool {
	if c == nil {
		return true
	}
	return c.Autoescape
}

func cloneScope(values map[string]any) map[string]any {
	scope := make(map[string]any, len(values))
	maps.Copy(scope, values)
	return scope
}
