package mosaic

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Factory constructs a renderable component from string keyword arguments,
// typically the query parameters of a serving request. Arguments that don't
// match what the component expects should fail with an error wrapping
// ErrConstruction; UnpackArgs does that for the common struct-filling case.
// Any other error the factory returns propagates to the caller unchanged.
type Factory func(args map[string]string) (any, error)

// Registry maps string keys to component factories so components can be
// looked up and served dynamically. Registration is meant to happen once at
// startup; after that the registry is only read, and reads are safe from
// multiple goroutines.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty Registry ready for registrations.
func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]Factory{},
	}
}

// Register stores a factory under the passed key. Registering the same key
// twice is a programming error, so it panics rather than silently replacing
// the earlier registration.
func (r *Registry) Register(key string, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("mosaic: nil factory registered for %q", key))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[key]; exists {
		panic(fmt.Sprintf("mosaic: factory already registered for %q", key))
	}
	r.factories[key] = factory
}

// Lookup returns the factory registered under the passed key, or an error
// wrapping ErrNotFound if there isn't one.
func (r *Registry) Lookup(key string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return factory, nil
}

// Keys returns the registered keys in lexical order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// DefaultRegistry is the process-wide registry that the package-level
// Register and Lookup use. Packages defining servable components usually
// register them here from an init function, before any serving starts.
var DefaultRegistry = NewRegistry()

// Register stores a factory in the DefaultRegistry.
func Register(key string, factory Factory) {
	DefaultRegistry.Register(key, factory)
}

// Lookup returns a factory from the DefaultRegistry.
func Lookup(key string) (Factory, error) {
	return DefaultRegistry.Lookup(key)
}

// UnpackArgs assigns string keyword arguments onto the exported fields of
// the struct dst points to, matching argument names to field names
// case-insensitively and converting values to the field's type. String,
// bool, integer, and float fields are supported. An argument that matches no
// field, or a value that can't be converted, fails with an error wrapping
// ErrConstruction, which the serving layer turns into a bad-request
// response.
func UnpackArgs(args map[string]string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("mosaic: UnpackArgs needs a non-nil pointer to a struct, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()
	for name, value := range args {
		var field reflect.Value
		for pos := 0; pos < rt.NumField(); pos++ {
			if strings.EqualFold(rt.Field(pos).Name, name) && rt.Field(pos).IsExported() {
				field = rv.Field(pos)
				break
			}
		}
		if !field.IsValid() {
			return fmt.Errorf("%w: unexpected argument %q", ErrConstruction, name)
		}
		if err := setField(field, value); err != nil {
			return fmt.Errorf("%w: argument %q: %v", ErrConstruction, name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}
