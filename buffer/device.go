// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

import "github.com/gogpu/gputypes"

// BufferID is an opaque handle to device storage.
// Each device maintains a mapping between IDs and its own resources.
type BufferID uint64

// InvalidID is the zero value, representing no storage.
const InvalidID BufferID = 0

// Device creates, writes and destroys buffer storage.
//
// Storage size is fixed at creation; buffers orphan and recreate storage
// to resize. WriteBuffer must copy data before returning.
type Device interface {
	// CreateBuffer creates storage of exactly size bytes (size > 0).
	CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (BufferID, error)

	// WriteBuffer copies data into the storage at offset.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// DestroyBuffer releases the storage. Unknown IDs are ignored.
	DestroyBuffer(id BufferID)
}

// Reader is an optional interface for devices that can read storage back
// cheaply. Mapped ranges on such devices start with the current contents
// instead of zeros.
type Reader interface {
	ReadBuffer(id BufferID, offset, size uint64) ([]byte, error)
}
