// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shaders

// Defaults for the probed names.
const (
	// DefaultPrimaryPackage is the root package of the primary extension.
	DefaultPrimaryPackage = "github.com/shaderpacks/runtime"

	// DefaultCompatModule is the module id of the compatibility extension.
	DefaultCompatModule = "shaders-compat"
)

// Symbols names the compatibility extension's exported state.
// Each name is "Symbol" or "Symbol.Member[.Member...]".
type Symbols struct {
	// ShaderPackLoaded is a bool (or func() bool) set while a pack is active.
	ShaderPackLoaded string
	// ShadowPass is a bool (or func() bool) set during the shadow pass.
	ShadowPass string
	// ShadowFrustum builds the shadow frustum from a camera and partial tick.
	ShadowFrustum string
}

// DefaultSymbols returns the symbol names used when none are configured.
func DefaultSymbols() Symbols {
	return Symbols{
		ShaderPackLoaded: "Shaders.ShaderPackLoaded",
		ShadowPass:       "Shaders.ShadowPass",
		ShadowFrustum:    "MakeShadowFrustum",
	}
}

// Option configures provider selection.
type Option func(*config)

type config struct {
	primaryPackage string
	compatModule   string
	symbols        Symbols
}

func defaultConfig() config {
	return config{
		primaryPackage: DefaultPrimaryPackage,
		compatModule:   DefaultCompatModule,
		symbols:        DefaultSymbols(),
	}
}

// WithPrimaryPackage overrides the package probed for the primary extension.
func WithPrimaryPackage(path string) Option {
	return func(c *config) {
		if path != "" {
			c.primaryPackage = path
		}
	}
}

// WithCompatModule overrides the module id probed for the compatibility
// extension.
func WithCompatModule(id string) Option {
	return func(c *config) {
		if id != "" {
			c.compatModule = id
		}
	}
}

// WithSymbols overrides the compatibility symbol names. Empty fields keep
// their defaults.
func WithSymbols(s Symbols) Option {
	return func(c *config) {
		if s.ShaderPackLoaded != "" {
			c.symbols.ShaderPackLoaded = s.ShaderPackLoaded
		}
		if s.ShadowPass != "" {
			c.symbols.ShadowPass = s.ShadowPass
		}
		if s.ShadowFrustum != "" {
			c.symbols.ShadowFrustum = s.ShadowFrustum
		}
	}
}
