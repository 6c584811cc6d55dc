package shaders

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/rendercore/frustum"
)

type fakeEnv struct {
	packages map[string]bool
	modules  map[string]SymbolTable
	api      PrimaryAPI
	panics   bool
}

func (e *fakeEnv) HasPackage(path string) bool {
	if e.panics {
		panic("package probe exploded")
	}
	return e.packages[path]
}

func (e *fakeEnv) IsModuleLoaded(id string) bool {
	if e.panics {
		panic("module probe exploded")
	}
	_, ok := e.modules[id]
	return ok
}

func (e *fakeEnv) ModuleSymbols(id string) SymbolTable { return e.modules[id] }

func (e *fakeEnv) PrimaryAPI() PrimaryAPI { return e.api }

type fakeAPI struct {
	inUse, shadow bool
	panics        bool
}

func (a *fakeAPI) IsShaderPackInUse() bool {
	if a.panics {
		panic("api exploded")
	}
	return a.inUse
}

func (a *fakeAPI) IsRenderingShadowPass() bool {
	if a.panics {
		panic("api exploded")
	}
	return a.shadow
}

// compatModule mimics the exported symbols of a runtime compat module.
type compatModule struct {
	ShaderPackLoaded bool
	ShadowPass       bool
}

type recordingFrustum struct {
	prepares int
	origin   mgl64.Vec3
}

func (f *recordingFrustum) Prepare(origin mgl64.Vec3) {
	f.prepares++
	f.origin = origin
}

func compatSymbols(state *compatModule, factory any) MapSymbols {
	table := MapSymbols{"Shaders": state}
	if factory != nil {
		table["MakeShadowFrustum"] = factory
	}
	return table
}

func bothEnv(api PrimaryAPI, table SymbolTable) *fakeEnv {
	return &fakeEnv{
		packages: map[string]bool{DefaultPrimaryPackage: true},
		modules:  map[string]SymbolTable{DefaultCompatModule: table},
		api:      api,
	}
}

func TestNewHandlerSelection(t *testing.T) {
	table := compatSymbols(&compatModule{}, nil)

	tests := []struct {
		name        string
		env         Environment
		want        Kind
		wantPrimary bool
		wantCompat  bool
	}{
		{"nil environment", nil, KindNone, false, false},
		{"nothing installed", &fakeEnv{}, KindNone, false, false},
		{"primary only", &fakeEnv{
			packages: map[string]bool{DefaultPrimaryPackage: true},
			api:      &fakeAPI{},
		}, KindPrimary, true, false},
		{"compat only", &fakeEnv{
			modules: map[string]SymbolTable{DefaultCompatModule: table},
		}, KindCompat, false, true},
		{"both prefers primary", bothEnv(&fakeAPI{}, table), KindPrimary, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.env)
			if got := h.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
			if got := h.IsPrimaryInstalled(); got != tt.wantPrimary {
				t.Errorf("IsPrimaryInstalled() = %v, want %v", got, tt.wantPrimary)
			}
			if got := h.IsCompatLoaded(); got != tt.wantCompat {
				t.Errorf("IsCompatLoaded() = %v, want %v", got, tt.wantCompat)
			}
		})
	}
}

func TestNewHandlerOptions(t *testing.T) {
	env := &fakeEnv{
		packages: map[string]bool{"example.com/other/pack": true},
		modules:  map[string]SymbolTable{"legacy": MapSymbols{"Pack": &compatModule{ShaderPackLoaded: true}}},
		api:      &fakeAPI{},
	}

	if got := NewHandler(env).Kind(); got != KindNone {
		t.Errorf("defaults: Kind() = %v, want none", got)
	}

	h := NewHandler(env, WithCompatModule("legacy"), WithSymbols(Symbols{ShaderPackLoaded: "Pack.ShaderPackLoaded"}))
	if h.Kind() != KindCompat {
		t.Fatalf("Kind() = %v, want compat", h.Kind())
	}
	if !h.IsShaderPackInUse() {
		t.Error("IsShaderPackInUse() = false with renamed symbol")
	}

	h = NewHandler(env, WithPrimaryPackage("example.com/other/pack"), WithCompatModule("legacy"))
	if h.Kind() != KindPrimary {
		t.Errorf("Kind() = %v, want primary", h.Kind())
	}
}

func TestPrimaryProviderForwards(t *testing.T) {
	api := &fakeAPI{}
	h := NewHandler(bothEnv(api, compatSymbols(&compatModule{ShaderPackLoaded: true, ShadowPass: true}, nil)))

	if h.IsShaderPackInUse() || h.IsRenderingShadowPass() {
		t.Fatal("queries read compat state while primary is selected")
	}
	api.inUse, api.shadow = true, true
	if !h.IsShaderPackInUse() {
		t.Error("IsShaderPackInUse() = false, want true")
	}
	if !h.IsRenderingShadowPass() {
		t.Error("IsRenderingShadowPass() = false, want true")
	}
	if got := h.CreateShadowFrustum(frustum.Camera{}, 0); got.Specified {
		t.Error("primary provider produced a shadow frustum")
	}
}

func TestPrimaryProviderWithoutAPI(t *testing.T) {
	h := NewHandler(&fakeEnv{packages: map[string]bool{DefaultPrimaryPackage: true}})
	if h.Kind() != KindPrimary {
		t.Fatalf("Kind() = %v, want primary", h.Kind())
	}
	if h.IsShaderPackInUse() || h.IsRenderingShadowPass() {
		t.Error("queries returned true without a registered API")
	}
}

func TestFailuresNeverEscape(t *testing.T) {
	t.Run("probes panic", func(t *testing.T) {
		h := NewHandler(&fakeEnv{panics: true})
		if h.Kind() != KindNone {
			t.Errorf("Kind() = %v, want none", h.Kind())
		}
		if h.IsPrimaryInstalled() || h.IsCompatLoaded() {
			t.Error("panicking probe reported presence")
		}
	})

	t.Run("api panics", func(t *testing.T) {
		h := NewHandler(bothEnv(&fakeAPI{panics: true}, nil))
		if h.IsShaderPackInUse() || h.IsRenderingShadowPass() {
			t.Error("panicking API returned true")
		}
	})

	t.Run("symbol lookup panics", func(t *testing.T) {
		h := NewHandler(&fakeEnv{modules: map[string]SymbolTable{DefaultCompatModule: panickingTable{}}})
		if h.Kind() != KindCompat {
			t.Fatalf("Kind() = %v, want compat", h.Kind())
		}
		if h.IsShaderPackInUse() || h.IsRenderingShadowPass() {
			t.Error("unresolved symbols returned true")
		}
		if h.CreateShadowFrustum(frustum.Camera{}, 0).Specified {
			t.Error("unresolved factory produced a frustum")
		}
	})

	t.Run("nil symbol table", func(t *testing.T) {
		h := NewHandler(&fakeEnv{modules: map[string]SymbolTable{DefaultCompatModule: nil}})
		if h.IsShaderPackInUse() {
			t.Error("nil table returned true")
		}
	})

	t.Run("nil handler", func(t *testing.T) {
		var h *Handler
		if h.Kind() != KindNone || h.IsShaderPackInUse() || h.CreateShadowFrustum(frustum.Camera{}, 0).Specified {
			t.Error("nil handler reported state")
		}
	})
}

func TestCompatProviderReadsLiveState(t *testing.T) {
	state := &compatModule{}
	h := NewHandler(&fakeEnv{modules: map[string]SymbolTable{DefaultCompatModule: compatSymbols(state, nil)}})

	if h.IsShaderPackInUse() || h.IsRenderingShadowPass() {
		t.Fatal("initial state reported true")
	}
	state.ShaderPackLoaded = true
	if !h.IsShaderPackInUse() {
		t.Error("IsShaderPackInUse() missed update")
	}
	if h.IsRenderingShadowPass() {
		t.Error("IsRenderingShadowPass() changed with unrelated field")
	}
	state.ShadowPass = true
	if !h.IsRenderingShadowPass() {
		t.Error("IsRenderingShadowPass() missed update")
	}
}

func TestCompatBindingsFailIndependently(t *testing.T) {
	table := MapSymbols{"Shaders": &struct{ ShadowPass bool }{ShadowPass: true}}
	h := NewHandler(&fakeEnv{modules: map[string]SymbolTable{DefaultCompatModule: table}})

	if h.IsShaderPackInUse() {
		t.Error("missing ShaderPackLoaded returned true")
	}
	if !h.IsRenderingShadowPass() {
		t.Error("resolved ShadowPass returned false")
	}
}

func TestCreateShadowFrustum(t *testing.T) {
	cam := frustum.NewCamera(mgl64.Vec3{12, 64, -3})

	t.Run("prepared at camera", func(t *testing.T) {
		made := &recordingFrustum{}
		var gotTick float32
		factory := func(c frustum.Camera, tick float32) *recordingFrustum {
			gotTick = tick
			return made
		}
		h := NewHandler(&fakeEnv{modules: map[string]SymbolTable{DefaultCompatModule: compatSymbols(&compatModule{}, factory)}})

		got := h.CreateShadowFrustum(cam, 0.25)
		if !got.Specified {
			t.Fatal("CreateShadowFrustum() absent")
		}
		if got.Value != Frustum(made) {
			t.Errorf("Value = %v, want factory result", got.Value)
		}
		if made.prepares != 1 || made.origin != cam.Position {
			t.Errorf("Prepare calls = %d origin = %v, want 1 at %v", made.prepares, made.origin, cam.Position)
		}
		if gotTick != 0.25 {
			t.Errorf("partial tick = %v, want 0.25", gotTick)
		}
	})

	t.Run("real frustum", func(t *testing.T) {
		proj := mgl64.Perspective(mgl64.DegToRad(70), 16.0/9.0, 0.05, 256)
		factory := func(c frustum.Camera, _ float64) *frustum.Frustum { return frustum.ForCamera(c, proj) }
		h := NewHandler(&fakeEnv{modules: map[string]SymbolTable{DefaultCompatModule: compatSymbols(&compatModule{}, factory)}})

		got := h.CreateShadowFrustum(cam, 1)
		if !got.Specified {
			t.Fatal("CreateShadowFrustum() absent")
		}
		f, ok := got.Value.(*frustum.Frustum)
		if !ok {
			t.Fatalf("Value type = %T", got.Value)
		}
		if !f.Prepared() || f.Origin() != cam.Position {
			t.Errorf("frustum not prepared at camera: prepared=%v origin=%v", f.Prepared(), f.Origin())
		}
	})

	absent := []struct {
		name    string
		factory any
	}{
		{"no factory", nil},
		{"nil result", func(frustum.Camera, float32) Frustum { return nil }},
		{"typed nil result", func(frustum.Camera, float32) *recordingFrustum { return nil }},
		{"panicking factory", func(frustum.Camera, float32) Frustum { panic("factory exploded") }},
	}
	for _, tt := range absent {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeEnv{modules: map[string]SymbolTable{DefaultCompatModule: compatSymbols(&compatModule{}, tt.factory)}})
			if got := h.CreateShadowFrustum(cam, 0); got.Specified {
				t.Errorf("CreateShadowFrustum() = %v, want absent", got.Value)
			}
		})
	}

	t.Run("prepare panics", func(t *testing.T) {
		factory := func(frustum.Camera, float32) Frustum { return panickyFrustum{} }
		h := NewHandler(&fakeEnv{modules: map[string]SymbolTable{DefaultCompatModule: compatSymbols(&compatModule{}, factory)}})
		if got := h.CreateShadowFrustum(cam, 0); got.Specified {
			t.Error("frustum with panicking Prepare returned")
		}
	})
}

type panickyFrustum struct{}

func (panickyFrustum) Prepare(mgl64.Vec3) { panic("prepare exploded") }

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindNone, "none"},
		{KindPrimary, "primary"},
		{KindCompat, "compat"},
		{Kind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

// resetDefault clears the process-wide handler for the duration of a test.
func resetDefault(t *testing.T) {
	t.Helper()
	defaultOnce = sync.Once{}
	defaultHandler = nil
	t.Cleanup(func() {
		defaultOnce = sync.Once{}
		defaultHandler = nil
	})
}

func TestInitSelectsOnce(t *testing.T) {
	resetDefault(t)
	state := &compatModule{ShaderPackLoaded: true}
	RegisterModule("test-compat", compatSymbols(state, nil))
	t.Cleanup(func() { UnregisterModule("test-compat") })

	Init(WithCompatModule("test-compat"))
	first := Default()
	Init(WithCompatModule("never-loaded"))

	if Default() != first {
		t.Fatal("Init replaced the default handler")
	}
	if ActiveKind() != KindCompat {
		t.Fatalf("ActiveKind() = %v, want compat", ActiveKind())
	}
	if !IsCompatLoaded() || IsPrimaryInstalled() {
		t.Errorf("IsCompatLoaded() = %v, IsPrimaryInstalled() = %v", IsCompatLoaded(), IsPrimaryInstalled())
	}
	if !IsShaderPackInUse() {
		t.Error("IsShaderPackInUse() = false")
	}
	if IsRenderingShadowPass() {
		t.Error("IsRenderingShadowPass() = true")
	}

	// Modules loaded after selection are not observed.
	UnregisterModule("test-compat")
	if ActiveKind() != KindCompat {
		t.Error("selection changed after module unload")
	}
	if CreateShadowFrustum(frustum.Camera{}, 0).Specified {
		t.Error("CreateShadowFrustum() without factory returned a value")
	}
}

func TestDefaultWithoutExtensions(t *testing.T) {
	resetDefault(t)
	if ActiveKind() != KindNone {
		t.Fatalf("ActiveKind() = %v, want none", ActiveKind())
	}
	if IsShaderPackInUse() || IsRenderingShadowPass() || IsPrimaryInstalled() || IsCompatLoaded() {
		t.Error("query returned true without extensions")
	}
}

func TestConcurrentQueries(t *testing.T) {
	resetDefault(t)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = IsShaderPackInUse()
			_ = CreateShadowFrustum(frustum.Camera{}, 0)
		}()
	}
	wg.Wait()
	if Default() == nil {
		t.Error("Default() = nil after concurrent init")
	}
}
