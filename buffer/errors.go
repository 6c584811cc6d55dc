// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

import "errors"

// Buffer errors. All of them except device failures indicate a bug in the
// caller and are never recovered internally.
var (
	// ErrNilDevice is returned when a buffer has no device to allocate on.
	ErrNilDevice = errors.New("buffer: device is nil")

	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("buffer: buffer has been destroyed")

	// ErrBufferNotAllocated is returned when mapping a buffer that was never
	// allocated or uploaded.
	ErrBufferNotAllocated = errors.New("buffer: buffer has no storage")

	// ErrInvalidBufferSize is returned for negative allocation sizes.
	ErrInvalidBufferSize = errors.New("buffer: invalid buffer size")

	// ErrBufferAlreadyMapped is returned when a second range is requested
	// while one is still live.
	ErrBufferAlreadyMapped = errors.New("buffer: buffer is already mapped")

	// ErrInvalidMapRange is returned when the map range is out of bounds.
	ErrInvalidMapRange = errors.New("buffer: map range out of bounds")

	// ErrMappingInvalidated is returned when closing a range whose storage
	// was replaced by Alloc or Upload. Nothing is written.
	ErrMappingInvalidated = errors.New("buffer: mapping invalidated by reallocation")

	// ErrUnknownBuffer is returned by devices for IDs they do not own.
	ErrUnknownBuffer = errors.New("buffer: unknown buffer id")
)
