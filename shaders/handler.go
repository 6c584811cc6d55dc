// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shaders

import (
	"sync"

	"github.com/mokiat/gog/opt"

	"github.com/gogpu/rendercore"
	"github.com/gogpu/rendercore/frustum"
)

// Handler routes shader queries to the provider chosen at construction.
// It is immutable and safe for concurrent use.
type Handler struct {
	provider         Provider
	primaryInstalled bool
	compatLoaded     bool
}

// candidate is one entry of the selection priority list.
type candidate struct {
	kind      Kind
	available bool
	build     func() Provider
}

// NewHandler probes env and selects a provider. The primary extension wins
// when both are present. A nil env selects no provider.
func NewHandler(env Environment, opts ...Option) *Handler {
	cfg := defaultConfig()
	for _, apply := range opts {
		apply(&cfg)
	}

	h := &Handler{}
	if env != nil {
		h.primaryInstalled = guard(func() bool { return env.HasPackage(cfg.primaryPackage) })
		h.compatLoaded = guard(func() bool { return env.IsModuleLoaded(cfg.compatModule) })
	}

	// Priority order for provider selection (first available wins).
	candidates := []candidate{
		{KindPrimary, h.primaryInstalled, func() Provider {
			return primaryProvider{api: primaryAPIOf(env)}
		}},
		{KindCompat, h.compatLoaded, func() Provider {
			return newCompatProvider(moduleSymbolsOf(env, cfg.compatModule), cfg.symbols)
		}},
	}

	h.provider = noneProvider{}
	for _, c := range candidates {
		if c.available {
			h.provider = c.build()
			break
		}
	}

	rendercore.Logger().Info("shaders: provider selected",
		"provider", h.provider.Kind().String(),
		"primary", h.primaryInstalled,
		"compat", h.compatLoaded)
	return h
}

func primaryAPIOf(env Environment) (api PrimaryAPI) {
	defer func() {
		if recover() != nil {
			api = nil
		}
	}()
	api = env.PrimaryAPI()
	if api == nil {
		rendercore.Logger().Warn("shaders: primary extension present but no API registered")
	}
	return api
}

func moduleSymbolsOf(env Environment, id string) (table SymbolTable) {
	defer func() {
		if recover() != nil {
			table = nil
		}
	}()
	return env.ModuleSymbols(id)
}

// Kind returns the kind of the selected provider.
func (h *Handler) Kind() Kind {
	if h == nil || h.provider == nil {
		return KindNone
	}
	return h.provider.Kind()
}

// Provider returns the selected provider.
func (h *Handler) Provider() Provider {
	if h == nil || h.provider == nil {
		return noneProvider{}
	}
	return h.provider
}

// IsShaderPackInUse reports whether a shader pack is active.
func (h *Handler) IsShaderPackInUse() bool {
	p := h.Provider()
	return guard(p.IsShaderPackInUse)
}

// IsRenderingShadowPass reports whether the shadow pass is being rendered.
func (h *Handler) IsRenderingShadowPass() bool {
	p := h.Provider()
	return guard(p.IsRenderingShadowPass)
}

// IsPrimaryInstalled reports whether the primary extension was present at
// selection time.
func (h *Handler) IsPrimaryInstalled() bool { return h != nil && h.primaryInstalled }

// IsCompatLoaded reports whether the compat module was loaded at selection
// time.
func (h *Handler) IsCompatLoaded() bool { return h != nil && h.compatLoaded }

// CreateShadowFrustum builds a shadow frustum through the compat extension.
// The result is absent for every other provider.
func (h *Handler) CreateShadowFrustum(cam frustum.Camera, partialTick float32) opt.T[Frustum] {
	sp, ok := h.Provider().(ShadowFrustumProvider)
	if !ok {
		return opt.Unspecified[Frustum]()
	}
	return sp.CreateShadowFrustum(cam, partialTick)
}

var (
	defaultOnce    sync.Once
	defaultHandler *Handler
)

// Init selects the process-wide provider from ProcessEnvironment. Only the
// first call has any effect; later calls and their options are ignored.
// Queries call Init implicitly.
func Init(opts ...Option) {
	defaultOnce.Do(func() {
		defaultHandler = NewHandler(ProcessEnvironment(), opts...)
	})
}

// Default returns the process-wide Handler, selecting it on first use.
func Default() *Handler {
	Init()
	return defaultHandler
}

// ActiveKind returns the kind of the process-wide provider.
func ActiveKind() Kind { return Default().Kind() }

// IsShaderPackInUse reports whether a shader pack is active.
func IsShaderPackInUse() bool { return Default().IsShaderPackInUse() }

// IsRenderingShadowPass reports whether the shadow pass is being rendered.
func IsRenderingShadowPass() bool { return Default().IsRenderingShadowPass() }

// IsPrimaryInstalled reports whether the primary extension is present.
func IsPrimaryInstalled() bool { return Default().IsPrimaryInstalled() }

// IsCompatLoaded reports whether the compat module is loaded.
func IsCompatLoaded() bool { return Default().IsCompatLoaded() }

// CreateShadowFrustum builds a shadow frustum through the process-wide
// provider. See Handler.CreateShadowFrustum.
func CreateShadowFrustum(cam frustum.Camera, partialTick float32) opt.T[Frustum] {
	return Default().CreateShadowFrustum(cam, partialTick)
}
