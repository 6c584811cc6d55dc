// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// MemoryDevice keeps buffer storage in host memory.
// It backs the software path and tests, and implements [Reader].
//
// MemoryDevice is safe for concurrent use.
type MemoryDevice struct {
	mu      sync.RWMutex
	nextID  BufferID
	buffers map[BufferID]*memoryBuffer
}

type memoryBuffer struct {
	label string
	usage gputypes.BufferUsage
	data  []byte
}

// NewMemoryDevice creates an empty host-memory device.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{buffers: make(map[BufferID]*memoryBuffer)}
}

// CreateBuffer allocates zeroed storage.
func (d *MemoryDevice) CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (BufferID, error) {
	if size == 0 {
		return InvalidID, fmt.Errorf("%w: size is 0", ErrInvalidBufferSize)
	}
	if usage == 0 {
		return InvalidID, fmt.Errorf("buffer: usage is empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.buffers[d.nextID] = &memoryBuffer{
		label: label,
		usage: usage,
		data:  make([]byte, size),
	}
	return d.nextID, nil
}

// WriteBuffer copies data into the storage at offset.
func (d *MemoryDevice) WriteBuffer(id BufferID, offset uint64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("%w: write of %d bytes at %d exceeds size %d",
			ErrInvalidMapRange, len(data), offset, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

// ReadBuffer returns a copy of size bytes starting at offset.
func (d *MemoryDevice) ReadBuffer(id BufferID, offset, size uint64) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	b, ok := d.buffers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}
	if offset+size > uint64(len(b.data)) {
		return nil, fmt.Errorf("%w: read of %d bytes at %d exceeds size %d",
			ErrInvalidMapRange, size, offset, len(b.data))
	}
	out := make([]byte, size)
	copy(out, b.data[offset:offset+size])
	return out, nil
}

// DestroyBuffer releases the storage.
func (d *MemoryDevice) DestroyBuffer(id BufferID) {
	d.mu.Lock()
	delete(d.buffers, id)
	d.mu.Unlock()
}

// Usage returns the usage flags the storage was created with.
func (d *MemoryDevice) Usage(id BufferID) (gputypes.BufferUsage, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.buffers[id]
	if !ok {
		return 0, false
	}
	return b.usage, true
}

// Live returns the number of storage allocations not yet destroyed.
func (d *MemoryDevice) Live() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.buffers)
}
