// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package buffer

// Option configures a MappableBuffer during creation.
type Option func(*options)

type options struct {
	usage BufferUsage
	label string
}

func defaultOptions() options {
	return options{usage: UsageStaticDraw}
}

// WithUsage sets the usage hint. The default is UsageStaticDraw.
func WithUsage(u BufferUsage) Option {
	return func(o *options) {
		o.usage = u
	}
}

// WithLabel sets a debug label passed to the device on every allocation.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}
