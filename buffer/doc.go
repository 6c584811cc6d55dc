// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package buffer manages typed, usage-hinted GPU buffers.
//
// A [Buffer] is bound to one [BufferType] for its whole life. A
// [MappableBuffer] additionally carries a [BufferUsage] hint and supports
// whole-buffer (re)allocation, bulk upload and scoped write-only mapping of
// a sub-range:
//
//	buf := buffer.NewMappableBuffer(dev, buffer.TypeArray,
//		buffer.WithUsage(buffer.UsageDynamicDraw))
//	defer buf.Destroy()
//
//	if err := buf.Alloc(4096); err != nil {
//		return err
//	}
//	err := buf.WithRange(0, 256, func(dst []byte) error {
//		copy(dst, vertices)
//		return nil
//	})
//
// Storage lives on a [Device]. [MemoryDevice] keeps it in host memory;
// [HALDevice] creates real buffers through gogpu/wgpu/hal.
//
// # Mapping rules
//
// Only one [MappedRange] may be live per buffer. Every range must be
// closed, which is why [MappableBuffer.WithRange] is the preferred form.
// Alloc and Upload replace the storage and invalidate any outstanding range.
//
// Buffers and ranges are not safe for concurrent use; they belong to the
// goroutine driving the renderer.
package buffer
