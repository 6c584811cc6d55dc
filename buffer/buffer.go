// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

import (
	"fmt"

	"github.com/gogpu/rendercore"
)

// State is the lifecycle state of a buffer.
type State int

const (
	// StateUnallocated means no Alloc or Upload has happened yet.
	StateUnallocated State = iota
	// StateAllocated means the buffer has storage (possibly of size 0).
	StateAllocated
	// StateMapped means a MappedRange is live.
	StateMapped
	// StateDestroyed is terminal.
	StateDestroyed
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateUnallocated:
		return "Unallocated"
	case StateAllocated:
		return "Allocated"
	case StateMapped:
		return "Mapped"
	case StateDestroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Buffer is a GPU buffer bound to a single BufferType.
//
// The buffer owns its device storage; Destroy frees it exactly once.
type Buffer struct {
	device    Device
	typ       BufferType
	label     string
	id        BufferID
	size      uint64
	allocated bool
	destroyed bool
}

// NewBuffer creates an unallocated buffer bound to typ.
func NewBuffer(device Device, typ BufferType) *Buffer {
	return &Buffer{device: device, typ: typ}
}

// Type returns the binding target.
func (b *Buffer) Type() BufferType { return b.typ }

// ID returns the device storage handle, or InvalidID when the buffer holds
// no storage (unallocated, size 0 or destroyed).
func (b *Buffer) ID() BufferID { return b.id }

// Size returns the byte size set by the last Alloc or Upload.
func (b *Buffer) Size() int { return int(b.size) }

// State returns the lifecycle state.
func (b *Buffer) State() State {
	switch {
	case b.destroyed:
		return StateDestroyed
	case b.allocated:
		return StateAllocated
	default:
		return StateUnallocated
	}
}

// IsDestroyed returns true if the buffer has been destroyed.
func (b *Buffer) IsDestroyed() bool { return b.destroyed }

// Destroy releases the storage. Calling it more than once is safe.
func (b *Buffer) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.release()
	b.size = 0
}

// release frees the current storage, if any.
func (b *Buffer) release() {
	if b.id != InvalidID {
		b.device.DestroyBuffer(b.id)
		b.id = InvalidID
	}
}

// replace orphans the current storage and installs new storage of size
// bytes filled with data (zeros when data is nil). On error the previous
// storage is kept.
func (b *Buffer) replace(size uint64, usage BufferUsage, data []byte) error {
	if b.destroyed {
		return ErrBufferDestroyed
	}
	if b.device == nil {
		return ErrNilDevice
	}

	id := InvalidID
	if size > 0 {
		var err error
		id, err = b.device.CreateBuffer(b.label, size, b.typ.Native()|usage.Native())
		if err != nil {
			return err
		}
		if len(data) > 0 {
			if err := b.device.WriteBuffer(id, 0, data); err != nil {
				b.device.DestroyBuffer(id)
				return fmt.Errorf("buffer: upload %d bytes: %w", len(data), err)
			}
		}
	}

	b.release()
	b.id = id
	b.size = size
	b.allocated = true

	rendercore.Logger().Debug("buffer: storage replaced",
		"type", b.typ, "usage", usage, "size", size, "label", b.label)
	return nil
}

// MappableBuffer is a Buffer with a fixed usage hint that supports
// allocation, upload and mapped ranges.
type MappableBuffer struct {
	Buffer

	usage      BufferUsage
	mapping    *MappedRange
	generation uint64
}

// NewMappableBuffer creates an unallocated buffer bound to typ.
// The usage hint defaults to UsageStaticDraw.
func NewMappableBuffer(device Device, typ BufferType, opts ...Option) *MappableBuffer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MappableBuffer{
		Buffer: Buffer{device: device, typ: typ, label: o.label},
		usage:  o.usage,
	}
}

// Usage returns the usage hint.
func (b *MappableBuffer) Usage() BufferUsage { return b.usage }

// State returns the lifecycle state, including StateMapped.
func (b *MappableBuffer) State() State {
	if !b.destroyed && b.mapping != nil {
		return StateMapped
	}
	return b.Buffer.State()
}

// Alloc orphans the current storage and allocates size bytes.
// Any outstanding MappedRange is invalidated.
func (b *MappableBuffer) Alloc(size int) error {
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBufferSize, size)
	}
	if err := b.replace(uint64(size), b.usage, nil); err != nil {
		return err
	}
	b.invalidate()
	return nil
}

// Upload replaces the storage with exactly len(data) bytes copied from
// data. Either the whole buffer holds data afterwards or an error is
// returned and the previous contents are untouched.
// Any outstanding MappedRange is invalidated.
func (b *MappableBuffer) Upload(data []byte) error {
	if err := b.replace(uint64(len(data)), b.usage, data); err != nil {
		return err
	}
	b.invalidate()
	return nil
}

// invalidate detaches any live mapping from the new storage.
func (b *MappableBuffer) invalidate() {
	b.generation++
	b.mapping = nil
}

// Destroy releases the storage and drops any live mapping.
func (b *MappableBuffer) Destroy() {
	b.mapping = nil
	b.Buffer.Destroy()
}
