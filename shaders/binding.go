// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shaders

import (
	"errors"
	"fmt"
	"plugin"
	"reflect"
	"strings"

	"github.com/gogpu/rendercore/frustum"
)

// Symbol resolution errors. They are recorded on the Binding and logged
// once; queries never return them.
var (
	// ErrNoSymbols is returned when the module exposes no symbol table.
	ErrNoSymbols = errors.New("shaders: module has no symbol table")

	// ErrSymbolNotFound is returned when a symbol or member does not exist.
	ErrSymbolNotFound = errors.New("shaders: symbol not found")

	// ErrSymbolType is returned when a symbol has an unusable type.
	ErrSymbolType = errors.New("shaders: symbol has unexpected type")

	// ErrSymbolPanicked is returned when resolution panicked.
	ErrSymbolPanicked = errors.New("shaders: symbol resolution panicked")
)

// SymbolTable looks up exported symbols of a loaded module by name.
type SymbolTable interface {
	Lookup(name string) (any, error)
}

// MapSymbols is an in-memory SymbolTable for statically registered modules.
// Variables should be stored as pointers so reads observe updates.
type MapSymbols map[string]any

// Lookup returns the named symbol.
func (m MapSymbols) Lookup(name string) (any, error) {
	v, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}
	return v, nil
}

// PluginSymbols adapts a Go plugin to SymbolTable.
type PluginSymbols struct {
	p *plugin.Plugin
}

// NewPluginSymbols wraps an opened plugin.
func NewPluginSymbols(p *plugin.Plugin) PluginSymbols {
	return PluginSymbols{p: p}
}

// Lookup returns the named plugin symbol.
func (s PluginSymbols) Lookup(name string) (any, error) {
	if s.p == nil {
		return nil, ErrNoSymbols
	}
	sym, err := s.p.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSymbolNotFound, err)
	}
	return sym, nil
}

// Binding is a reference to an external symbol resolved exactly once.
//
// A resolved binding reads through its cached accessor on every Get. An
// unresolved binding returns the zero value of T forever; it never retries.
// Panics raised while reading also yield the zero value.
type Binding[T any] struct {
	name string
	get  func() T
	err  error
}

// Name returns the symbol name the binding was resolved from.
func (b Binding[T]) Name() string { return b.name }

// Bound reports whether resolution succeeded.
func (b Binding[T]) Bound() bool { return b.get != nil }

// Err returns the resolution error, or nil when bound.
func (b Binding[T]) Err() error { return b.err }

// Get reads the current value.
func (b Binding[T]) Get() (v T) {
	if b.get == nil {
		return v
	}
	defer func() {
		if recover() != nil {
			var zero T
			v = zero
		}
	}()
	return b.get()
}

// BindBool resolves a bool variable, a bool struct field (exported or not),
// a value with a Load() bool method such as *atomic.Bool, or a func() bool.
func BindBool(table SymbolTable, name string) Binding[bool] {
	b := Binding[bool]{name: name}
	v, err := resolve(table, name)
	if err == nil {
		b.get, err = boolAccessor(v)
	}
	if err != nil {
		b.get, b.err = nil, err
	}
	return b
}

// BindFrustumFactory resolves an exported function or method of the form
//
//	func(frustum.Camera, float32 | float64) X
//	func(frustum.Camera, float32 | float64) (X, error)
//
// where X implements Frustum.
func BindFrustumFactory(table SymbolTable, name string) Binding[FrustumFactory] {
	b := Binding[FrustumFactory]{name: name}
	v, err := resolve(table, name)
	if err == nil {
		var factory FrustumFactory
		factory, err = frustumFactory(v)
		if err == nil {
			b.get = func() FrustumFactory { return factory }
		}
	}
	b.err = err
	return b
}

// resolve looks up the first segment of name and walks the remaining
// segments as struct fields or methods.
func resolve(table SymbolTable, name string) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = reflect.Value{}, fmt.Errorf("%w: %s: %v", ErrSymbolPanicked, name, r)
		}
	}()

	if table == nil {
		return reflect.Value{}, ErrNoSymbols
	}
	parts := strings.Split(name, ".")
	if parts[0] == "" {
		return reflect.Value{}, fmt.Errorf("%w: empty name %q", ErrSymbolNotFound, name)
	}
	sym, err := table.Lookup(parts[0])
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return reflect.Value{}, err
		}
		return reflect.Value{}, fmt.Errorf("%w: %s: %v", ErrSymbolNotFound, parts[0], err)
	}
	v = reflect.ValueOf(sym)
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s is nil", ErrSymbolNotFound, parts[0])
	}
	for _, part := range parts[1:] {
		if v, err = member(v, part); err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return v, nil
}

// member returns the method or field called name, looking through
// pointers and interfaces.
func member(v reflect.Value, name string) (reflect.Value, error) {
	for {
		if m := v.MethodByName(name); m.IsValid() {
			return m, nil
		}
		if v.Kind() != reflect.Pointer && v.Kind() != reflect.Interface {
			break
		}
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %s before %s", ErrSymbolNotFound, v.Type(), name)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s has no member %s", ErrSymbolType, v.Type(), name)
	}
	f := v.FieldByName(name)
	if !f.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrSymbolNotFound, v.Type(), name)
	}
	return f, nil
}

var boolFuncType = reflect.TypeOf(func() bool { return false })

func boolAccessor(v reflect.Value) (func() bool, error) {
	for {
		if load, ok := loadMethod(v); ok {
			return load, nil
		}
		if v.Kind() != reflect.Pointer {
			break
		}
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrSymbolType, v.Type())
		}
		v = v.Elem()
	}
	switch {
	case v.Kind() == reflect.Bool:
		return v.Bool, nil
	case v.Type() == boolFuncType && v.CanInterface():
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil func", ErrSymbolType)
		}
		return func() bool { return v.Call(nil)[0].Bool() }, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a bool", ErrSymbolType, v.Type())
	}
}

// loadMethod finds a callable Load() bool on v or its address.
func loadMethod(v reflect.Value) (func() bool, bool) {
	if !v.CanInterface() {
		return nil, false
	}
	m := v.MethodByName("Load")
	if !m.IsValid() && v.CanAddr() {
		m = v.Addr().MethodByName("Load")
	}
	if !m.IsValid() || m.Type() != boolFuncType {
		return nil, false
	}
	return func() bool { return m.Call(nil)[0].Bool() }, true
}

var (
	cameraType  = reflect.TypeOf(frustum.Camera{})
	frustumType = reflect.TypeOf((*Frustum)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

func frustumFactory(v reflect.Value) (FrustumFactory, error) {
	for v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Func {
		v = v.Elem()
	}
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s is not a func", ErrSymbolType, v.Type())
	}
	if v.IsNil() {
		return nil, fmt.Errorf("%w: nil func", ErrSymbolType)
	}
	if !v.CanInterface() {
		return nil, fmt.Errorf("%w: unexported func", ErrSymbolType)
	}
	if f, ok := v.Interface().(func(frustum.Camera, float32) Frustum); ok {
		return f, nil
	}

	t := v.Type()
	if t.NumIn() != 2 || t.In(0) != cameraType ||
		(t.In(1).Kind() != reflect.Float32 && t.In(1).Kind() != reflect.Float64) {
		return nil, fmt.Errorf("%w: %s does not take (Camera, float)", ErrSymbolType, t)
	}
	if t.NumOut() < 1 || t.NumOut() > 2 || !t.Out(0).Implements(frustumType) ||
		(t.NumOut() == 2 && t.Out(1) != errorType) {
		return nil, fmt.Errorf("%w: %s does not return a Frustum", ErrSymbolType, t)
	}

	tickType := t.In(1)
	return func(cam frustum.Camera, partialTick float32) Frustum {
		out := v.Call([]reflect.Value{
			reflect.ValueOf(cam),
			reflect.ValueOf(partialTick).Convert(tickType),
		})
		if len(out) == 2 && !out[1].IsNil() {
			return nil
		}
		if isNilValue(out[0]) {
			return nil
		}
		f, _ := out[0].Interface().(Frustum)
		return f
	}, nil
}

// isNilValue reports whether v holds nothing, including typed nils.
func isNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
