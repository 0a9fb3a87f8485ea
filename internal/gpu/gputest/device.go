// Package gputest provides an in-memory gpu.Device for tests.
//
// It keeps buffer contents, per vertex array state, shader and program
// deletion the way a driver does, and queues errors for GetError.
package gputest

import (
	"fmt"
	"strings"

	"github.com/adinfinit/quad/internal/gpu"
)

// Write records one BufferSubData call.
type Write struct {
	Buffer uint32
	Offset int
	Length int
}

// Draw records one DrawElements call.
type Draw struct {
	Program uint32
	Array   uint32
	Mode    gpu.Primitive
	Count   int32
	Polygon gpu.PolygonMode
}

// Attribute is the recorded state of one vertex attribute.
type Attribute struct {
	Buffer     uint32
	Components int32
	Type       gpu.DataType
	Normalized bool
	Stride     int32
	Offset     int
	Enabled    bool
}

type buffer struct {
	data  []byte
	usage gpu.Usage
}

type vertexArray struct {
	elements   uint32
	attributes map[uint32]*Attribute
}

type shader struct {
	stage    gpu.Stage
	source   string
	compiled bool
	log      string
	deleted  bool
	attached int
}

type program struct {
	shaders []uint32
	linked  bool
	log     string
	deleted bool
}

// Device is a fake gpu.Device. The zero value is not usable; use New.
type Device struct {
	// Fail* make the matching allocation call return 0.
	FailBuffers      bool
	FailVertexArrays bool
	FailShaders      bool
	FailPrograms     bool
	// FailLinks makes every LinkProgram fail with a linker log.
	FailLinks bool
	// ReuseNames hands out names of reclaimed shaders and programs again.
	ReuseNames bool

	// Shaders lists the stage of every CreateShader call in order.
	Shaders []gpu.Stage
	// Writes lists every BufferSubData call.
	Writes []Write
	// Draws lists every DrawElements call.
	Draws []Draw
	// Clears counts Clear calls.
	Clears int

	Color   [4]float32
	Polygon gpu.PolygonMode

	next         uint32
	arrayBinding uint32
	arrayBound   uint32
	current      uint32
	buffers      map[uint32]*buffer
	arrays       map[uint32]*vertexArray
	shaders      map[uint32]*shader
	programs     map[uint32]*program
	errors       []uint32
	free         []uint32
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty device with vertex array 0 bound.
func New() *Device {
	return &Device{
		Polygon:  gpu.Fill,
		buffers:  map[uint32]*buffer{},
		arrays:   map[uint32]*vertexArray{0: newVertexArray()},
		shaders:  map[uint32]*shader{},
		programs: map[uint32]*program{},
	}
}

func newVertexArray() *vertexArray {
	return &vertexArray{attributes: map[uint32]*Attribute{}}
}

func (dev *Device) alloc() uint32 {
	if n := len(dev.free); n > 0 {
		id := dev.free[n-1]
		dev.free = dev.free[:n-1]
		return id
	}
	dev.next++
	return dev.next
}

func (dev *Device) fail(code uint32) {
	dev.errors = append(dev.errors, code)
}

// Errors returns the pending error codes without clearing them.
func (dev *Device) Errors() []uint32 { return append([]uint32(nil), dev.errors...) }

// Buffer returns a copy of the contents of buffer id.
func (dev *Device) Buffer(id uint32) []byte {
	b, ok := dev.buffers[id]
	if !ok {
		return nil
	}
	return append([]byte(nil), b.data...)
}

// BufferUsage returns the usage hint given to the last BufferData on id.
func (dev *Device) BufferUsage(id uint32) gpu.Usage {
	if b, ok := dev.buffers[id]; ok {
		return b.usage
	}
	return 0
}

// Attribute returns the state of attribute index in vertex array id.
func (dev *Device) Attribute(array, index uint32) (Attribute, bool) {
	vao, ok := dev.arrays[array]
	if !ok {
		return Attribute{}, false
	}
	attr, ok := vao.attributes[index]
	if !ok {
		return Attribute{}, false
	}
	return *attr, true
}

// ElementBuffer returns the element buffer recorded in vertex array id.
func (dev *Device) ElementBuffer(array uint32) uint32 {
	if vao, ok := dev.arrays[array]; ok {
		return vao.elements
	}
	return 0
}

// Attached returns the shaders attached to program id.
func (dev *Device) Attached(id uint32) []uint32 {
	if p, ok := dev.programs[id]; ok {
		return append([]uint32(nil), p.shaders...)
	}
	return nil
}

func (dev *Device) GenBuffer() uint32 {
	if dev.FailBuffers {
		return 0
	}
	id := dev.alloc()
	dev.buffers[id] = &buffer{}
	return id
}

func (dev *Device) BindBuffer(target gpu.BufferTarget, id uint32) {
	if id != 0 {
		if _, ok := dev.buffers[id]; !ok {
			dev.fail(gpu.InvalidValue)
			return
		}
	}
	switch target {
	case gpu.ArrayBuffer:
		dev.arrayBinding = id
	case gpu.ElementArrayBuffer:
		dev.arrays[dev.arrayBound].elements = id
	default:
		dev.fail(gpu.InvalidEnum)
	}
}

func (dev *Device) BoundBuffer(target gpu.BufferTarget) uint32 {
	switch target {
	case gpu.ArrayBuffer:
		return dev.arrayBinding
	case gpu.ElementArrayBuffer:
		return dev.arrays[dev.arrayBound].elements
	}
	return 0
}

func (dev *Device) bound(target gpu.BufferTarget) *buffer {
	id := dev.BoundBuffer(target)
	if id == 0 {
		dev.fail(gpu.InvalidOperation)
		return nil
	}
	return dev.buffers[id]
}

func (dev *Device) BufferData(target gpu.BufferTarget, data []byte, usage gpu.Usage) {
	b := dev.bound(target)
	if b == nil {
		return
	}
	b.data = append([]byte(nil), data...)
	b.usage = usage
}

func (dev *Device) BufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	b := dev.bound(target)
	if b == nil {
		return
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		dev.fail(gpu.InvalidValue)
		return
	}
	copy(b.data[offset:], data)
	dev.Writes = append(dev.Writes, Write{Buffer: dev.BoundBuffer(target), Offset: offset, Length: len(data)})
}

func (dev *Device) GetBufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	b := dev.bound(target)
	if b == nil {
		return
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		dev.fail(gpu.InvalidValue)
		return
	}
	copy(data, b.data[offset:])
}

func (dev *Device) DeleteBuffer(id uint32) {
	if _, ok := dev.buffers[id]; !ok {
		return
	}
	delete(dev.buffers, id)
	if dev.arrayBinding == id {
		dev.arrayBinding = 0
	}
	for _, vao := range dev.arrays {
		if vao.elements == id {
			vao.elements = 0
		}
	}
}

func (dev *Device) GenVertexArray() uint32 {
	if dev.FailVertexArrays {
		return 0
	}
	id := dev.alloc()
	dev.arrays[id] = newVertexArray()
	return id
}

func (dev *Device) BindVertexArray(id uint32) {
	if _, ok := dev.arrays[id]; !ok {
		dev.fail(gpu.InvalidOperation)
		return
	}
	dev.arrayBound = id
}

func (dev *Device) BoundVertexArray() uint32 { return dev.arrayBound }

func (dev *Device) VertexAttribPointer(index uint32, size int32, xtype gpu.DataType, normalized bool, stride int32, offset int) {
	if dev.arrayBound == 0 || dev.arrayBinding == 0 {
		dev.fail(gpu.InvalidOperation)
		return
	}
	if size < 1 || size > 4 || stride < 0 {
		dev.fail(gpu.InvalidValue)
		return
	}
	attrs := dev.arrays[dev.arrayBound].attributes
	enabled := attrs[index] != nil && attrs[index].Enabled
	attrs[index] = &Attribute{
		Buffer:     dev.arrayBinding,
		Components: size,
		Type:       xtype,
		Normalized: normalized,
		Stride:     stride,
		Offset:     offset,
		Enabled:    enabled,
	}
}

func (dev *Device) EnableVertexAttribArray(index uint32) {
	if dev.arrayBound == 0 {
		dev.fail(gpu.InvalidOperation)
		return
	}
	attrs := dev.arrays[dev.arrayBound].attributes
	if attrs[index] == nil {
		attrs[index] = &Attribute{}
	}
	attrs[index].Enabled = true
}

func (dev *Device) DeleteVertexArray(id uint32) {
	if id == 0 {
		return
	}
	delete(dev.arrays, id)
	if dev.arrayBound == id {
		dev.arrayBound = 0
	}
}

func (dev *Device) CreateShader(stage gpu.Stage) uint32 {
	dev.Shaders = append(dev.Shaders, stage)
	if dev.FailShaders {
		return 0
	}
	if stage != gpu.VertexStage && stage != gpu.FragmentStage {
		dev.fail(gpu.InvalidEnum)
		return 0
	}
	id := dev.alloc()
	dev.shaders[id] = &shader{stage: stage}
	return id
}

func (dev *Device) ShaderSource(id uint32, source string) {
	if s, ok := dev.shaders[id]; ok {
		s.source = source
		return
	}
	dev.fail(gpu.InvalidValue)
}

// CompileShader accepts any source that has a #version directive and
// defines main; everything else fails with a driver style log.
func (dev *Device) CompileShader(id uint32) {
	s, ok := dev.shaders[id]
	if !ok {
		dev.fail(gpu.InvalidValue)
		return
	}
	s.compiled = false
	s.log = ""
	switch {
	case !strings.Contains(s.source, "#version"):
		s.log = "0:1(1): error: no #version directive\n"
	case !strings.Contains(s.source, "void main"):
		s.log = "0:1(1): error: function `main' not defined\n"
	default:
		s.compiled = true
	}
}

func (dev *Device) ShaderCompiled(id uint32) bool {
	s, ok := dev.shaders[id]
	return ok && s.compiled
}

func (dev *Device) ShaderInfoLogLength(id uint32) int32 {
	s, ok := dev.shaders[id]
	if !ok || s.log == "" {
		return 0
	}
	return int32(len(s.log) + 1)
}

func (dev *Device) ShaderInfoLog(id uint32, buf []byte) int32 {
	s, ok := dev.shaders[id]
	if !ok {
		return 0
	}
	return writeLog(buf, s.log)
}

// writeLog copies log into buf with a terminator, like glGetShaderInfoLog.
func writeLog(buf []byte, log string) int32 {
	if len(buf) == 0 {
		return 0
	}
	n := copy(buf[:len(buf)-1], log)
	buf[n] = 0
	return int32(n)
}

func (dev *Device) DeleteShader(id uint32) {
	s, ok := dev.shaders[id]
	if !ok {
		return
	}
	s.deleted = true
	dev.reclaimShader(id)
}

func (dev *Device) reclaimShader(id uint32) {
	if s := dev.shaders[id]; s != nil && s.deleted && s.attached == 0 {
		delete(dev.shaders, id)
		dev.release(id)
	}
}

func (dev *Device) IsShader(id uint32) bool {
	_, ok := dev.shaders[id]
	return ok
}

func (dev *Device) CreateProgram() uint32 {
	if dev.FailPrograms {
		return 0
	}
	id := dev.alloc()
	dev.programs[id] = &program{}
	return id
}

func (dev *Device) AttachShader(programID, shaderID uint32) {
	p, ok := dev.programs[programID]
	s, sok := dev.shaders[shaderID]
	if !ok || !sok {
		dev.fail(gpu.InvalidValue)
		return
	}
	for _, id := range p.shaders {
		if id == shaderID {
			dev.fail(gpu.InvalidOperation)
			return
		}
	}
	p.shaders = append(p.shaders, shaderID)
	s.attached++
}

func (dev *Device) DetachShader(programID, shaderID uint32) {
	p, ok := dev.programs[programID]
	if !ok {
		dev.fail(gpu.InvalidValue)
		return
	}
	for i, id := range p.shaders {
		if id == shaderID {
			p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
			dev.shaders[shaderID].attached--
			dev.reclaimShader(shaderID)
			return
		}
	}
	dev.fail(gpu.InvalidOperation)
}

func (dev *Device) LinkProgram(id uint32) {
	p, ok := dev.programs[id]
	if !ok {
		dev.fail(gpu.InvalidValue)
		return
	}
	p.linked = false
	p.log = ""
	if dev.FailLinks {
		p.log = "error: linking failed: out of resources\n"
		return
	}

	var stages []gpu.Stage
	for _, sid := range p.shaders {
		s := dev.shaders[sid]
		if !s.compiled {
			p.log = fmt.Sprintf("error: %v shader %d not compiled\n", s.stage, sid)
			return
		}
		stages = append(stages, s.stage)
	}
	for _, want := range []gpu.Stage{gpu.VertexStage, gpu.FragmentStage} {
		found := false
		for _, stage := range stages {
			found = found || stage == want
		}
		if !found {
			p.log = fmt.Sprintf("error: program lacks a %v shader\n", strings.ToLower(want.String()))
			return
		}
	}
	p.linked = true
}

func (dev *Device) ProgramLinked(id uint32) bool {
	p, ok := dev.programs[id]
	return ok && p.linked
}

func (dev *Device) ProgramInfoLogLength(id uint32) int32 {
	p, ok := dev.programs[id]
	if !ok || p.log == "" {
		return 0
	}
	return int32(len(p.log) + 1)
}

func (dev *Device) ProgramInfoLog(id uint32, buf []byte) int32 {
	p, ok := dev.programs[id]
	if !ok {
		return 0
	}
	return writeLog(buf, p.log)
}

func (dev *Device) DeleteProgram(id uint32) {
	p, ok := dev.programs[id]
	if !ok {
		return
	}
	p.deleted = true
	if dev.current != id {
		dev.reclaimProgram(id)
	}
}

func (dev *Device) reclaimProgram(id uint32) {
	p := dev.programs[id]
	if p == nil || !p.deleted {
		return
	}
	for _, sid := range p.shaders {
		dev.shaders[sid].attached--
		dev.reclaimShader(sid)
	}
	delete(dev.programs, id)
	dev.release(id)
}

func (dev *Device) release(id uint32) {
	if dev.ReuseNames {
		dev.free = append(dev.free, id)
	}
}

func (dev *Device) IsProgram(id uint32) bool {
	_, ok := dev.programs[id]
	return ok
}

func (dev *Device) UseProgram(id uint32) {
	if id != 0 {
		p, ok := dev.programs[id]
		if !ok || !p.linked {
			dev.fail(gpu.InvalidOperation)
			return
		}
	}
	prev := dev.current
	dev.current = id
	if prev != id {
		dev.reclaimProgram(prev)
	}
}

func (dev *Device) CurrentProgram() uint32 { return dev.current }

func (dev *Device) ClearColor(r, g, b, a float32) { dev.Color = [4]float32{r, g, b, a} }

func (dev *Device) Clear() { dev.Clears++ }

func (dev *Device) DrawElements(mode gpu.Primitive, count int32, xtype gpu.DataType, offset int) {
	if dev.current == 0 || dev.arrayBound == 0 {
		dev.fail(gpu.InvalidOperation)
		return
	}
	if count < 0 {
		dev.fail(gpu.InvalidValue)
		return
	}
	vao := dev.arrays[dev.arrayBound]
	elements, ok := dev.buffers[vao.elements]
	if !ok {
		dev.fail(gpu.InvalidOperation)
		return
	}
	size := 4
	if xtype != gpu.UnsignedInt {
		size = 2
	}
	if offset+int(count)*size > len(elements.data) {
		dev.fail(gpu.InvalidOperation)
		return
	}
	for _, attr := range vao.attributes {
		if attr.Enabled && attr.Buffer == 0 {
			dev.fail(gpu.InvalidOperation)
			return
		}
	}
	dev.Draws = append(dev.Draws, Draw{
		Program: dev.current,
		Array:   dev.arrayBound,
		Mode:    mode,
		Count:   count,
		Polygon: dev.Polygon,
	})
}

func (dev *Device) PolygonMode(mode gpu.PolygonMode) {
	switch mode {
	case gpu.Point, gpu.Line, gpu.Fill:
		dev.Polygon = mode
	default:
		dev.fail(gpu.InvalidEnum)
	}
}

func (dev *Device) GetError() uint32 {
	if len(dev.errors) == 0 {
		return gpu.NoError
	}
	code := dev.errors[0]
	dev.errors = dev.errors[1:]
	return code
}
