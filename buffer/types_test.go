package buffer

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestBufferTypeNative(t *testing.T) {
	tests := []struct {
		typ  BufferType
		want gputypes.BufferUsage
	}{
		{TypeArray, gputypes.BufferUsageVertex},
		{TypeElementArray, gputypes.BufferUsageIndex},
		{TypeUniform, gputypes.BufferUsageUniform},
		{TypeStorage, gputypes.BufferUsageStorage},
		{TypeDrawIndirect, gputypes.BufferUsageIndirect},
		{TypeCopyRead, gputypes.BufferUsageCopySrc},
		{TypeCopyWrite, 0},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got := tt.typ.Native()
			if !got.Contains(gputypes.BufferUsageCopyDst) {
				t.Errorf("%v.Native() = %v, missing CopyDst", tt.typ, got)
			}
			if tt.want != 0 && !got.Contains(tt.want) {
				t.Errorf("%v.Native() = %v, want it to contain %v", tt.typ, got, tt.want)
			}
			if !tt.typ.Valid() {
				t.Errorf("%v.Valid() = false", tt.typ)
			}
		})
	}
}

func TestBufferUsageNative(t *testing.T) {
	for u := UsageStaticDraw; u <= UsageStreamCopy; u++ {
		got := u.Native()
		wantCopySrc := u != UsageStaticDraw && u != UsageDynamicDraw && u != UsageStreamDraw
		if got.Contains(gputypes.BufferUsageCopySrc) != wantCopySrc {
			t.Errorf("%v.Native() = %v, CopySrc want %v", u, got, wantCopySrc)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"type", TypeElementArray.String(), "ElementArray"},
		{"type unknown", BufferType(42).String(), "Unknown(42)"},
		{"usage", UsageDynamicDraw.String(), "DynamicDraw"},
		{"usage unknown", BufferUsage(-1).String(), "Unknown(-1)"},
		{"state", StateMapped.String(), "Mapped"},
		{"access", AccessWrite.String(), "Write"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if BufferType(42).Valid() || BufferUsage(-1).Valid() {
		t.Error("out-of-range enums must not be valid")
	}
}

func TestAccessMapMode(t *testing.T) {
	if got := AccessWrite.MapMode(); got != gputypes.MapModeWrite {
		t.Errorf("AccessWrite.MapMode() = %v, want MapModeWrite", got)
	}
}

func TestParseEnums(t *testing.T) {
	for typ := TypeArray; typ <= TypeCopyWrite; typ++ {
		got, err := ParseBufferType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseBufferType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if got, err := ParseBufferUsage("streamdraw"); err != nil || got != UsageStreamDraw {
		t.Errorf("ParseBufferUsage(streamdraw) = %v, %v", got, err)
	}
	if _, err := ParseBufferType("Texture"); err == nil {
		t.Error("ParseBufferType(Texture) succeeded")
	}
	if _, err := ParseBufferUsage(""); err == nil {
		t.Error("ParseBufferUsage(\"\") succeeded")
	}
}
