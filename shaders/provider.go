// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shaders

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mokiat/gog/opt"

	"github.com/gogpu/rendercore"
	"github.com/gogpu/rendercore/frustum"
)

// Kind identifies which extension backs a Provider.
type Kind int

const (
	// KindNone reports no extension; every query returns false.
	KindNone Kind = iota

	// KindPrimary is the linked extension with a stable Go API.
	KindPrimary

	// KindCompat is the runtime-loaded module read through reflection.
	KindCompat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPrimary:
		return "primary"
	case KindCompat:
		return "compat"
	default:
		return "unknown"
	}
}

// Frustum is a culling volume produced by the compat extension.
// Prepare positions it at the camera before use.
type Frustum interface {
	Prepare(origin mgl64.Vec3)
}

// FrustumFactory builds a shadow frustum for a camera and partial tick.
// It may return nil.
type FrustumFactory func(cam frustum.Camera, partialTick float32) Frustum

// Provider answers shader state queries. Implementations never panic and
// never return errors.
type Provider interface {
	Kind() Kind
	IsShaderPackInUse() bool
	IsRenderingShadowPass() bool
}

// ShadowFrustumProvider is implemented by providers that can build shadow
// frustums.
type ShadowFrustumProvider interface {
	CreateShadowFrustum(cam frustum.Camera, partialTick float32) opt.T[Frustum]
}

// PrimaryAPI is the query surface the primary extension registers with
// RegisterPrimaryAPI.
type PrimaryAPI interface {
	IsShaderPackInUse() bool
	IsRenderingShadowPass() bool
}

type noneProvider struct{}

func (noneProvider) Kind() Kind                  { return KindNone }
func (noneProvider) IsShaderPackInUse() bool     { return false }
func (noneProvider) IsRenderingShadowPass() bool { return false }

type primaryProvider struct {
	api PrimaryAPI
}

func (p primaryProvider) Kind() Kind { return KindPrimary }

func (p primaryProvider) IsShaderPackInUse() bool {
	if p.api == nil {
		return false
	}
	return guard(p.api.IsShaderPackInUse)
}

func (p primaryProvider) IsRenderingShadowPass() bool {
	if p.api == nil {
		return false
	}
	return guard(p.api.IsRenderingShadowPass)
}

// compatProvider reads extension state through bindings resolved once at
// construction. Each binding fails independently.
type compatProvider struct {
	shaderPackLoaded Binding[bool]
	shadowPass       Binding[bool]
	shadowFrustum    Binding[FrustumFactory]
}

func newCompatProvider(table SymbolTable, names Symbols) *compatProvider {
	p := &compatProvider{
		shaderPackLoaded: BindBool(table, names.ShaderPackLoaded),
		shadowPass:       BindBool(table, names.ShadowPass),
		shadowFrustum:    BindFrustumFactory(table, names.ShadowFrustum),
	}
	for _, b := range []interface {
		Name() string
		Err() error
	}{p.shaderPackLoaded, p.shadowPass, p.shadowFrustum} {
		if err := b.Err(); err != nil {
			rendercore.Logger().Warn("shaders: compat symbol unavailable",
				"symbol", b.Name(), "err", err)
		}
	}
	return p
}

func (p *compatProvider) Kind() Kind { return KindCompat }

func (p *compatProvider) IsShaderPackInUse() bool { return p.shaderPackLoaded.Get() }

func (p *compatProvider) IsRenderingShadowPass() bool { return p.shadowPass.Get() }

// CreateShadowFrustum calls the bound factory and prepares the result at
// the camera position. A missing factory, a panic, or a nil result all
// yield an absent value.
func (p *compatProvider) CreateShadowFrustum(cam frustum.Camera, partialTick float32) (out opt.T[Frustum]) {
	factory := p.shadowFrustum.Get()
	if factory == nil {
		return opt.Unspecified[Frustum]()
	}
	defer func() {
		if r := recover(); r != nil {
			rendercore.Logger().Debug("shaders: shadow frustum factory panicked", "panic", r)
			out = opt.Unspecified[Frustum]()
		}
	}()

	f := factory(cam, partialTick)
	if isNilFrustum(f) {
		return opt.Unspecified[Frustum]()
	}
	f.Prepare(cam.Position)
	return opt.V(f)
}

func isNilFrustum(f Frustum) bool {
	return f == nil || isNilValue(reflect.ValueOf(f))
}

// guard calls fn and converts a panic into false.
func guard(fn func() bool) (v bool) {
	defer func() {
		if recover() != nil {
			v = false
		}
	}()
	return fn()
}
