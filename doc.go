// Package rendercore is a support layer for renderers built on the GoGPU
// ecosystem.
//
// The module has two independent halves:
//
//   - [github.com/gogpu/rendercore/buffer] owns GPU buffers: a fixed binding
//     type, a usage hint, whole-buffer (re)allocation and upload, and scoped
//     write-only mapped ranges.
//   - [github.com/gogpu/rendercore/shaders] detects optional shading
//     extensions in the running process and answers "is a shader pack in
//     use" and "is this a shadow pass" without ever failing.
//
// [github.com/gogpu/rendercore/frustum] supplies the camera input type and a
// six-plane view frustum used for shadow-pass culling.
//
// # Logging
//
// The module is silent by default. Install a [log/slog] logger with
// [SetLogger] to see provider selection and buffer diagnostics:
//
//	rendercore.SetLogger(slog.Default())
package rendercore
