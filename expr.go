package mosaic

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// expr is a parsed directive expression: either a literal (quoted string,
// number, or bool) or a dotted variable path resolved against the invocation
// context at render time.
type expr struct {
	literal   any
	isLiteral bool
	path      []string
}

// parseExpr parses a single expression token. Parsing never consults the
// context; variable paths are only resolved when the directive renders.
func parseExpr(token string) (expr, error) {
	if token == "" {
		return expr{}, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	if len(token) >= 2 {
		if (token[0] == '"' && token[len(token)-1] == '"') ||
			(token[0] == '\'' && token[len(token)-1] == '\'') {
			return expr{literal: token[1 : len(token)-1], isLiteral: true}, nil
		}
	}
	if token == "true" {
		return expr{literal: true, isLiteral: true}, nil
	}
	if token == "false" {
		return expr{literal: false, isLiteral: true}, nil
	}
	if num, err := strconv.ParseInt(token, 10, 64); err == nil {
		return expr{literal: int(num), isLiteral: true}, nil
	}
	if num, err := strconv.ParseFloat(token, 64); err == nil {
		return expr{literal: num, isLiteral: true}, nil
	}
	path := strings.Split(token, ".")
	for _, segment := range path {
		if segment == "" {
			return expr{}, fmt.Errorf("%w: malformed variable %q", ErrSyntax, token)
		}
	}
	return expr{path: path}, nil
}

// resolve evaluates the expression against the passed context.
func (e expr) resolve(parent *Context) (any, error) {
	if e.isLiteral {
		return e.literal, nil
	}
	val, ok := parent.Get(e.path[0])
	if !ok {
		return nil, fmt.Errorf("undefined variable %q", e.path[0])
	}
	for _, segment := range e.path[1:] {
		var err error
		val, err = lookupAttr(val, segment)
		if err != nil {
			return nil, fmt.Errorf("error resolving %q: %w", strings.Join(e.path, "."), err)
		}
	}
	return val, nil
}

// lookupAttr resolves one path segment on a value: a key for maps with
// string keys, an exported field for structs, following pointers as needed.
func lookupAttr(val any, name string) (any, error) {
	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("nil value has no attribute %q", name)
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map with %s keys has no attribute %q", rv.Type().Key(), name)
		}
		entry := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !entry.IsValid() {
			return nil, fmt.Errorf("no key %q", name)
		}
		return entry.Interface(), nil
	case reflect.Struct:
		field := rv.FieldByName(name)
		if !field.IsValid() || !field.CanInterface() {
			return nil, fmt.Errorf("%s has no field %q", rv.Type(), name)
		}
		return field.Interface(), nil
	default:
		return nil, fmt.Errorf("%s value has no attribute %q", rv.Kind(), name)
	}
}

// isTrue reports the truthiness of a resolved expression value: false for
// nil, false, empty strings, zero numbers, and empty collections.
func isTrue(val any) bool {
	switch typed := val.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}
