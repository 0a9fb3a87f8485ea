// Package gldevice implements gpu.Device with go-gl.
//
// All calls must come from the thread that owns the current GL context.
package gldevice

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/adinfinit/quad/internal/gpu"
)

// Device forwards to the OpenGL functions loaded by New.
type Device struct{}

var _ gpu.Device = (*Device)(nil)

// New loads the OpenGL function pointers for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize gl: %w", err)
	}
	return &Device{}, nil
}

// Version returns the GL_VERSION string of the current context.
func (*Device) Version() string { return gl.GoStr(gl.GetString(gl.VERSION)) }

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func getInteger(pname uint32) uint32 {
	var value int32
	gl.GetIntegerv(pname, &value)
	return uint32(value)
}

func (*Device) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (*Device) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	gl.BindBuffer(uint32(target), buffer)
}

func (*Device) BoundBuffer(target gpu.BufferTarget) uint32 {
	switch target {
	case gpu.ArrayBuffer:
		return getInteger(gl.ARRAY_BUFFER_BINDING)
	case gpu.ElementArrayBuffer:
		return getInteger(gl.ELEMENT_ARRAY_BUFFER_BINDING)
	}
	return 0
}

func (*Device) BufferData(target gpu.BufferTarget, data []byte, usage gpu.Usage) {
	gl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (*Device) BufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	gl.BufferSubData(uint32(target), offset, len(data), ptr(data))
}

func (*Device) GetBufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	gl.GetBufferSubData(uint32(target), offset, len(data), ptr(data))
}

func (*Device) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (*Device) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (*Device) BindVertexArray(array uint32) { gl.BindVertexArray(array) }

func (*Device) BoundVertexArray() uint32 { return getInteger(gl.VERTEX_ARRAY_BINDING) }

func (*Device) VertexAttribPointer(index uint32, size int32, xtype gpu.DataType, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, uint32(xtype), normalized, stride, gl.PtrOffset(offset))
}

func (*Device) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (*Device) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }

func (*Device) CreateShader(stage gpu.Stage) uint32 { return gl.CreateShader(uint32(stage)) }

func (*Device) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (*Device) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*Device) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (*Device) ShaderInfoLogLength(shader uint32) int32 {
	var length int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
	return length
}

func (*Device) ShaderInfoLog(shader uint32, buf []byte) int32 {
	if len(buf) == 0 {
		return 0
	}
	var written int32
	gl.GetShaderInfoLog(shader, int32(len(buf)), &written, &buf[0])
	return written
}

func (*Device) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (*Device) IsShader(shader uint32) bool { return gl.IsShader(shader) }

func (*Device) CreateProgram() uint32 { return gl.CreateProgram() }

func (*Device) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (*Device) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (*Device) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (*Device) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (*Device) ProgramInfoLogLength(program uint32) int32 {
	var length int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
	return length
}

func (*Device) ProgramInfoLog(program uint32, buf []byte) int32 {
	if len(buf) == 0 {
		return 0
	}
	var written int32
	gl.GetProgramInfoLog(program, int32(len(buf)), &written, &buf[0])
	return written
}

func (*Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (*Device) IsProgram(program uint32) bool { return gl.IsProgram(program) }

func (*Device) UseProgram(program uint32) { gl.UseProgram(program) }

func (*Device) CurrentProgram() uint32 { return getInteger(gl.CURRENT_PROGRAM) }

func (*Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (*Device) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (*Device) DrawElements(mode gpu.Primitive, count int32, xtype gpu.DataType, offset int) {
	gl.DrawElements(uint32(mode), count, uint32(xtype), gl.PtrOffset(offset))
}

func (*Device) PolygonMode(mode gpu.PolygonMode) {
	gl.PolygonMode(gl.FRONT_AND_BACK, uint32(mode))
}

func (*Device) GetError() uint32 { return gl.GetError() }
