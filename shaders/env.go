// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shaders

import (
	"fmt"
	"plugin"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/rendercore"
)

// Environment answers the presence questions used during provider selection.
type Environment interface {
	// HasPackage reports whether a package rooted at path is linked into
	// the process.
	HasPackage(path string) bool

	// IsModuleLoaded reports whether a runtime module with the given id
	// has been loaded.
	IsModuleLoaded(id string) bool

	// ModuleSymbols returns the symbol table of a loaded module, or nil.
	ModuleSymbols(id string) SymbolTable

	// PrimaryAPI returns the API registered by the primary extension, or nil.
	PrimaryAPI() PrimaryAPI
}

// registry holds extensions announced at runtime.
var (
	registryMu sync.RWMutex
	packages   = make(map[string]struct{})
	modules    = make(map[string]SymbolTable)
	primaryAPI PrimaryAPI
)

// RegisterPackage records that a package is present. Extensions linked into
// the binary call this from init() when build information is unavailable.
func RegisterPackage(path string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	packages[path] = struct{}{}
}

// UnregisterPackage removes a package recorded by RegisterPackage.
// This is useful for testing.
func UnregisterPackage(path string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(packages, path)
}

// RegisterModule records a loaded runtime module and its symbols.
// If a module with the same id is already registered, it will be replaced.
func RegisterModule(id string, symbols SymbolTable) {
	registryMu.Lock()
	defer registryMu.Unlock()
	modules[id] = symbols
}

// UnregisterModule removes a module from the registry.
// This is useful for testing.
func UnregisterModule(id string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(modules, id)
}

// LoadedModules returns the sorted ids of registered modules.
func LoadedModules() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ids := make([]string, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// OpenModule loads a Go plugin from path and registers it under id.
func OpenModule(id, path string) error {
	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("shaders: open module %q: %w", id, err)
	}
	RegisterModule(id, NewPluginSymbols(p))
	rendercore.Logger().Debug("shaders: module opened", "id", id, "path", path)
	return nil
}

// RegisterPrimaryAPI installs the primary extension's query surface.
// Passing nil removes it.
func RegisterPrimaryAPI(api PrimaryAPI) {
	registryMu.Lock()
	defer registryMu.Unlock()
	primaryAPI = api
}

// linkedModules lists the module paths compiled into the binary.
var linkedModules = sync.OnceValue(func() []string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	paths := make([]string, 0, len(info.Deps)+1)
	if info.Main.Path != "" {
		paths = append(paths, info.Main.Path)
	}
	for _, dep := range info.Deps {
		paths = append(paths, dep.Path)
	}
	return paths
})

type processEnvironment struct{}

// ProcessEnvironment returns the Environment of the running process. It
// combines the binary's build information with the package and module
// registries.
func ProcessEnvironment() Environment {
	return processEnvironment{}
}

func (processEnvironment) HasPackage(path string) bool {
	if path == "" {
		return false
	}
	registryMu.RLock()
	for pkg := range packages {
		if within(pkg, path) {
			registryMu.RUnlock()
			return true
		}
	}
	registryMu.RUnlock()

	for _, mod := range linkedModules() {
		if within(mod, path) {
			return true
		}
	}
	return false
}

func (processEnvironment) IsModuleLoaded(id string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := modules[id]
	return ok
}

func (processEnvironment) ModuleSymbols(id string) SymbolTable {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return modules[id]
}

func (processEnvironment) PrimaryAPI() PrimaryAPI {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return primaryAPI
}

// within reports whether path is root or lies under it. A linked parent
// module does not prove that a package below it is present.
func within(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}
