// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

import (
	"runtime"
	"unsafe"
)

// UploadSlice uploads values as raw bytes. T must not contain pointers.
func UploadSlice[T any](b *MappableBuffer, values []T) error {
	return b.Upload(sliceAsBytes(values))
}

// sliceAsBytes reinterprets the provided slice of data as a []byte.
// See https://github.com/golang/go/issues/32402.
func sliceAsBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	ptr := (*byte)(unsafe.Pointer(&data[0]))
	n := len(data) * int(unsafe.Sizeof(zero))
	bytes := unsafe.Slice(ptr, n)
	runtime.KeepAlive(data)
	return bytes
}
