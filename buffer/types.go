// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// BufferType is the binding target of a buffer.
type BufferType int

const (
	// TypeArray holds vertex attributes.
	TypeArray BufferType = iota
	// TypeElementArray holds indices.
	TypeElementArray
	// TypeUniform holds uniform blocks.
	TypeUniform
	// TypeStorage holds shader storage.
	TypeStorage
	// TypeDrawIndirect holds indirect draw arguments.
	TypeDrawIndirect
	// TypeCopyRead is a copy source.
	TypeCopyRead
	// TypeCopyWrite is a copy destination.
	TypeCopyWrite
)

// String returns the string representation of BufferType.
func (t BufferType) String() string {
	switch t {
	case TypeArray:
		return "Array"
	case TypeElementArray:
		return "ElementArray"
	case TypeUniform:
		return "Uniform"
	case TypeStorage:
		return "Storage"
	case TypeDrawIndirect:
		return "DrawIndirect"
	case TypeCopyRead:
		return "CopyRead"
	case TypeCopyWrite:
		return "CopyWrite"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Valid reports whether t is one of the declared buffer types.
func (t BufferType) Valid() bool {
	return t >= TypeArray && t <= TypeCopyWrite
}

// Native returns the usage flags that bind a buffer to this target.
// CopyDst is always included because uploads and mapped ranges are flushed
// with queue writes.
func (t BufferType) Native() gputypes.BufferUsage {
	var u gputypes.BufferUsage
	switch t {
	case TypeArray:
		u = gputypes.BufferUsageVertex
	case TypeElementArray:
		u = gputypes.BufferUsageIndex
	case TypeUniform:
		u = gputypes.BufferUsageUniform
	case TypeStorage:
		u = gputypes.BufferUsageStorage
	case TypeDrawIndirect:
		u = gputypes.BufferUsageIndirect
	case TypeCopyRead:
		u = gputypes.BufferUsageCopySrc
	}
	return u | gputypes.BufferUsageCopyDst
}

// ParseBufferType returns the BufferType whose String matches s,
// ignoring case.
func ParseBufferType(s string) (BufferType, error) {
	for t := TypeArray; t <= TypeCopyWrite; t++ {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("buffer: unknown buffer type %q", s)
}

// BufferUsage hints how often a buffer is rewritten and who reads it.
// The hint only affects placement, never correctness.
// The zero value is UsageStaticDraw.
type BufferUsage int

const (
	// UsageStaticDraw is written once and drawn many times.
	UsageStaticDraw BufferUsage = iota
	// UsageStaticRead is written once by the GPU and read back many times.
	UsageStaticRead
	// UsageStaticCopy is written once by the GPU and used as a copy source.
	UsageStaticCopy
	// UsageDynamicDraw is rewritten often and drawn many times.
	UsageDynamicDraw
	// UsageDynamicRead is rewritten often by the GPU and read back.
	UsageDynamicRead
	// UsageDynamicCopy is rewritten often and used as a copy source.
	UsageDynamicCopy
	// UsageStreamDraw is written once and drawn at most a few times.
	UsageStreamDraw
	// UsageStreamRead is written once by the GPU and read back a few times.
	UsageStreamRead
	// UsageStreamCopy is written once and copied a few times.
	UsageStreamCopy
)

// String returns the string representation of BufferUsage.
func (u BufferUsage) String() string {
	switch u {
	case UsageStaticDraw:
		return "StaticDraw"
	case UsageStaticRead:
		return "StaticRead"
	case UsageStaticCopy:
		return "StaticCopy"
	case UsageDynamicDraw:
		return "DynamicDraw"
	case UsageDynamicRead:
		return "DynamicRead"
	case UsageDynamicCopy:
		return "DynamicCopy"
	case UsageStreamDraw:
		return "StreamDraw"
	case UsageStreamRead:
		return "StreamRead"
	case UsageStreamCopy:
		return "StreamCopy"
	default:
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
}

// Valid reports whether u is one of the declared usage hints.
func (u BufferUsage) Valid() bool {
	return u >= UsageStaticDraw && u <= UsageStreamCopy
}

// ParseBufferUsage returns the BufferUsage whose String matches s,
// ignoring case.
func ParseBufferUsage(s string) (BufferUsage, error) {
	for u := UsageStaticDraw; u <= UsageStreamCopy; u++ {
		if strings.EqualFold(u.String(), s) {
			return u, nil
		}
	}
	return 0, fmt.Errorf("buffer: unknown buffer usage %q", s)
}

// Native returns the extra usage flags implied by the hint. Read and Copy
// hints make the buffer a copy source so it can be read back or copied.
func (u BufferUsage) Native() gputypes.BufferUsage {
	switch u {
	case UsageStaticRead, UsageStaticCopy,
		UsageDynamicRead, UsageDynamicCopy,
		UsageStreamRead, UsageStreamCopy:
		return gputypes.BufferUsageCopySrc
	default:
		return 0
	}
}

// Access is the set of host access rights of a mapped range.
type Access uint32

const (
	// AccessWrite allows the host to write the range.
	AccessWrite Access = 1 << iota
)

// String returns the string representation of Access.
func (a Access) String() string {
	if a == AccessWrite {
		return "Write"
	}
	return fmt.Sprintf("Access(%d)", uint32(a))
}

// MapMode returns the native map mode for the access set.
func (a Access) MapMode() gputypes.MapMode {
	var m gputypes.MapMode
	if a&AccessWrite != 0 {
		m |= gputypes.MapModeWrite
	}
	return m
}
