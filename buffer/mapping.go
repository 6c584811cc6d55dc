// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

import (
	"errors"
	"fmt"

	"github.com/gogpu/rendercore"
)

// MappedRange is a host-writable window onto [offset, offset+length) of a
// MappableBuffer. Bytes written to Bytes() reach the buffer on Close.
//
// A range must be closed on every path; until then the buffer cannot be
// mapped again.
type MappedRange struct {
	buf        *MappableBuffer
	offset     int
	length     int
	access     Access
	data       []byte
	generation uint64
	closed     bool
}

// MapRange maps length bytes starting at offset for writing.
//
// Returns an error if:
//   - The buffer has been destroyed
//   - The buffer was never allocated
//   - Another range is still live
//   - offset < 0, length <= 0 or offset+length exceeds Size()
//
// The window starts with the current contents when the device implements
// [Reader], and zeroed otherwise. Close writes the whole window back, so
// on devices without Reader untouched bytes in the window are cleared.
func (b *MappableBuffer) MapRange(offset, length int) (*MappedRange, error) {
	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	if !b.allocated {
		return nil, ErrBufferNotAllocated
	}
	if b.mapping != nil {
		return nil, ErrBufferAlreadyMapped
	}
	if offset < 0 || length <= 0 || offset > int(b.size) || length > int(b.size)-offset {
		return nil, fmt.Errorf("%w: offset %d + length %d > buffer size %d",
			ErrInvalidMapRange, offset, length, b.size)
	}

	var data []byte
	if r, ok := b.device.(Reader); ok {
		prev, err := r.ReadBuffer(b.id, uint64(offset), uint64(length))
		if err != nil {
			return nil, fmt.Errorf("buffer: read back mapped range: %w", err)
		}
		data = prev
	} else {
		data = make([]byte, length)
	}

	m := &MappedRange{
		buf:        b,
		offset:     offset,
		length:     length,
		access:     AccessWrite,
		data:       data,
		generation: b.generation,
	}
	b.mapping = m
	rendercore.Logger().Debug("buffer: range mapped", "type", b.typ, "offset", offset, "length", length)
	return m, nil
}

// WithRange maps [offset, offset+length), calls fn with the window and
// closes the range whatever fn does. Errors from fn and Close are joined.
func (b *MappableBuffer) WithRange(offset, length int, fn func(dst []byte) error) (err error) {
	m, err := b.MapRange(offset, length)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, m.Close())
	}()
	return fn(m.Bytes())
}

// Bytes returns the writable window, or nil once the range is closed.
func (m *MappedRange) Bytes() []byte {
	if m.closed {
		return nil
	}
	return m.data
}

// Offset returns the byte offset of the window in the buffer.
func (m *MappedRange) Offset() int { return m.offset }

// Len returns the window length in bytes.
func (m *MappedRange) Len() int { return m.length }

// Access returns the host access rights of the range.
func (m *MappedRange) Access() Access { return m.access }

// Valid reports whether closing the range would still write to the buffer.
func (m *MappedRange) Valid() bool {
	return !m.closed && !m.buf.destroyed && m.generation == m.buf.generation
}

// Close flushes the window to the buffer and releases the mapping slot.
// The slot is released even when the flush fails. Closing twice is a no-op.
//
// Returns ErrMappingInvalidated if Alloc or Upload replaced the storage
// since the range was mapped, and ErrBufferDestroyed if the buffer is gone;
// in both cases nothing is written.
func (m *MappedRange) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil

	b := m.buf
	if b.destroyed {
		return ErrBufferDestroyed
	}
	if m.generation != b.generation {
		return ErrMappingInvalidated
	}
	b.mapping = nil

	if err := b.device.WriteBuffer(b.id, uint64(m.offset), data); err != nil {
		return fmt.Errorf("buffer: flush mapped range: %w", err)
	}
	return nil
}
