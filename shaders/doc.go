// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shaders detects optional shading extensions in the running
// process and answers, cheaply and without ever failing, whether a shader
// pack is in use and whether the current pass renders shadows.
//
// # Providers
//
// Exactly one [Provider] is selected per process, on first use or by
// [Init]:
//
//   - primary: the primary extension is linked into the binary (its module
//     appears in the build info, or it called [RegisterPackage]) and
//     answers through the [PrimaryAPI] it registered.
//   - compat: the compatibility extension was loaded as a module (a Go
//     plugin opened with [OpenModule] or a table given to [RegisterModule]);
//     its state is read through reflective [Binding]s resolved once.
//   - none: no extension; every query is false.
//
// If both extensions are present the primary one wins.
//
// # Failure model
//
// The probed environment is untrusted. Panics and errors from probes,
// symbol lookups and extension calls are swallowed into false or an absent
// frustum. Resolution failures are logged once when the provider is built.
//
//	shaders.Init()
//	if shaders.IsRenderingShadowPass() {
//		if f := shaders.CreateShadowFrustum(cam, partialTick); f.Specified {
//			cull(f.Value)
//		}
//	}
package shaders
