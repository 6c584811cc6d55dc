// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore"
)

// ErrNoHALProvider is returned when a device provider does not expose its
// HAL device and queue.
var ErrNoHALProvider = errors.New("buffer: provider does not expose HAL types")

// copyAlignment is the granularity of queue writes; storage is rounded up to it.
const copyAlignment uint64 = 4

// HALDevice implements [Device] and [Reader] on top of gogpu/wgpu/hal.
//
// Each buffer keeps a host copy of its contents. Queue writes are widened
// to the 4-byte copy alignment from that copy, and mapped ranges start
// with the current contents, so bytes a caller does not touch survive a
// flush. The copy is only updated after the queue accepted the write.
//
// HALDevice is safe for concurrent use. The hal device and queue are
// borrowed; Close releases only the buffers created through HALDevice.
type HALDevice struct {
	mu      sync.RWMutex
	device  hal.Device
	queue   hal.Queue
	maxSize uint64
	nextID  atomic.Uint64
	buffers map[BufferID]*halBuffer
}

// halBuffer is a device buffer and its host copy. len(shadow) is the
// aligned storage size; size is the size the caller asked for.
type halBuffer struct {
	buf    hal.Buffer
	size   uint64
	shadow []byte
}

// NewHALDevice wraps a HAL device and queue.
// If limits is nil, gputypes.DefaultLimits is used.
func NewHALDevice(device hal.Device, queue hal.Queue, limits *gputypes.Limits) *HALDevice {
	lim := gputypes.DefaultLimits()
	if limits != nil {
		lim = *limits
	}
	d := &HALDevice{
		device:  device,
		queue:   queue,
		maxSize: lim.MaxBufferSize,
		buffers: make(map[BufferID]*halBuffer),
	}
	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)
	return d
}

// NewHALDeviceFromProvider shares the GPU device of a host application.
// The provider must also implement HalDevice() any and HalQueue() any
// returning hal types, as gogpu windows do.
func NewHALDeviceFromProvider(provider gpucontext.DeviceProvider) (*HALDevice, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return NewHALDevice(device, queue, nil), nil
}

// newID generates a unique buffer ID.
func (d *HALDevice) newID() BufferID {
	return BufferID(d.nextID.Add(1) - 1)
}

// CreateBuffer creates a GPU buffer. The storage is rounded up to the
// 4-byte copy alignment.
func (d *HALDevice) CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (BufferID, error) {
	if size == 0 {
		return InvalidID, fmt.Errorf("%w: size is 0", ErrInvalidBufferSize)
	}
	if d.maxSize > 0 && size > d.maxSize {
		return InvalidID, fmt.Errorf("%w: size %d exceeds device limit %d", ErrInvalidBufferSize, size, d.maxSize)
	}
	if usage == 0 {
		return InvalidID, fmt.Errorf("buffer: usage is empty")
	}

	aligned := (size + copyAlignment - 1) &^ (copyAlignment - 1)
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  aligned,
		Usage: usage,
	})
	if err != nil {
		return InvalidID, fmt.Errorf("buffer: create %q: %w", label, err)
	}

	id := d.newID()
	d.mu.Lock()
	d.buffers[id] = &halBuffer{buf: buf, size: size, shadow: make([]byte, aligned)}
	d.mu.Unlock()
	return id, nil
}

// WriteBuffer writes data at offset through the queue. The write is
// widened to the copy alignment with the bytes already held by the buffer.
// Queue errors are returned wrapped and leave the contents unchanged.
func (d *HALDevice) WriteBuffer(id BufferID, offset uint64, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}
	if offset > b.size || uint64(len(data)) > b.size-offset {
		return fmt.Errorf("%w: write of %d bytes at %d exceeds size %d",
			ErrInvalidMapRange, len(data), offset, b.size)
	}
	if len(data) == 0 {
		return nil
	}

	start := offset &^ (copyAlignment - 1)
	end := (offset + uint64(len(data)) + copyAlignment - 1) &^ (copyAlignment - 1)
	chunk := make([]byte, end-start)
	copy(chunk, b.shadow[start:end])
	copy(chunk[offset-start:], data)

	if err := d.queue.WriteBuffer(b.buf, start, chunk); err != nil {
		return fmt.Errorf("buffer: write %d: %w", id, err)
	}
	copy(b.shadow[start:end], chunk)
	return nil
}

// ReadBuffer returns a copy of size bytes starting at offset from the
// host copy of the buffer.
func (d *HALDevice) ReadBuffer(id BufferID, offset, size uint64) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	b, ok := d.buffers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}
	if offset > b.size || size > b.size-offset {
		return nil, fmt.Errorf("%w: read of %d bytes at %d exceeds size %d",
			ErrInvalidMapRange, size, offset, b.size)
	}
	out := make([]byte, size)
	copy(out, b.shadow[offset:offset+size])
	return out, nil
}

// DestroyBuffer releases a GPU buffer.
func (d *HALDevice) DestroyBuffer(id BufferID) {
	d.mu.Lock()
	b, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyBuffer(b.buf)
	}
}

// Live returns the number of buffers not yet destroyed.
func (d *HALDevice) Live() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.buffers)
}

// Close destroys every buffer still owned by the device. Leftovers are
// reported because they mean an owner forgot to call Destroy.
func (d *HALDevice) Close() {
	d.mu.Lock()
	leaked := d.buffers
	d.buffers = make(map[BufferID]*halBuffer)
	d.mu.Unlock()

	if len(leaked) > 0 {
		rendercore.Logger().Warn("buffer: destroying leaked buffers", "count", len(leaked))
	}
	for _, b := range leaked {
		d.device.DestroyBuffer(b.buf)
	}
}
