package mosaic

import "errors"

var (
	// ErrNotConfigured is returned when a Component has neither a template
	// name that resolves through its Engine nor an inline template body,
	// so there is nothing to render.
	ErrNotConfigured = errors.New("mosaic: component has no template name or template body")

	// ErrTemplateNotFound is returned by an Engine when no template is
	// registered under the requested name.
	ErrTemplateNotFound = errors.New("mosaic: template not found")

	// ErrNotFound is returned when a Registry lookup fails for a given
	// key. The serving layer surfaces it as a not-found response.
	ErrNotFound = errors.New("mosaic: servable component not found")

	// ErrConstruction is returned when the arguments supplied to a
	// component factory don't match what the component expects. The
	// serving layer surfaces it as a bad-request response.
	ErrConstruction = errors.New("mosaic: invalid component arguments")

	// ErrCannotRender is returned when a Directive resolves a target that
	// is neither a ContextRenderable nor, when the fallback is permitted,
	// a SimpleRenderable.
	ErrCannotRender = errors.New("mosaic: cannot render value as a component")

	// ErrSyntax is returned by ParseDirective when the embedding
	// instruction is malformed. It is always raised at parse time, never
	// at render time.
	ErrSyntax = errors.New("mosaic: invalid component instruction")
)

// IsNotFound checks whether err is a registry lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConstruction checks whether err is a component construction failure.
func IsConstruction(err error) bool {
	return errors.Is(err, ErrConstruction)
}
