package gpu

// Device is the subset of the OpenGL core profile used by this package.
//
// Allocation calls return 0 when the driver could not create the object;
// the wrappers in this package turn that into an *AllocationError.
type Device interface {
	GenBuffer() uint32
	BindBuffer(target BufferTarget, buffer uint32)
	BoundBuffer(target BufferTarget) uint32
	BufferData(target BufferTarget, data []byte, usage Usage)
	BufferSubData(target BufferTarget, offset int, data []byte)
	GetBufferSubData(target BufferTarget, offset int, data []byte)
	DeleteBuffer(buffer uint32)

	GenVertexArray() uint32
	BindVertexArray(array uint32)
	BoundVertexArray() uint32
	VertexAttribPointer(index uint32, size int32, xtype DataType, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
	DeleteVertexArray(array uint32)

	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLogLength(shader uint32) int32
	ShaderInfoLog(shader uint32, buf []byte) int32
	DeleteShader(shader uint32)
	IsShader(shader uint32) bool

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLogLength(program uint32) int32
	ProgramInfoLog(program uint32, buf []byte) int32
	DeleteProgram(program uint32)
	IsProgram(program uint32) bool
	UseProgram(program uint32)
	CurrentProgram() uint32

	ClearColor(r, g, b, a float32)
	Clear()
	DrawElements(mode Primitive, count int32, xtype DataType, offset int)
	PolygonMode(mode PolygonMode)
	GetError() uint32
}

// BufferTarget is the binding point of a buffer object.
type BufferTarget uint32

const (
	// ArrayBuffer holds vertex data.
	ArrayBuffer BufferTarget = 0x8892
	// ElementArrayBuffer holds vertex indices; its binding is part of the
	// currently bound vertex array.
	ElementArrayBuffer BufferTarget = 0x8893
)

func (target BufferTarget) String() string {
	switch target {
	case ArrayBuffer:
		return "ARRAY_BUFFER"
	case ElementArrayBuffer:
		return "ELEMENT_ARRAY_BUFFER"
	}
	return "BufferTarget(?)"
}

// Usage is an advisory hint about how buffer contents will be accessed.
type Usage uint32

const (
	StaticDraw  Usage = 0x88E4
	StreamDraw  Usage = 0x88E0
	DynamicDraw Usage = 0x88E8
)

// Stage is a shader pipeline stage.
type Stage uint32

const (
	VertexStage   Stage = 0x8B31
	FragmentStage Stage = 0x8B30
)

func (stage Stage) String() string {
	switch stage {
	case VertexStage:
		return "Vertex"
	case FragmentStage:
		return "Fragment"
	}
	return "Stage(?)"
}

// DataType identifies the component type of attribute or index data.
type DataType uint32

const (
	Float       DataType = 0x1406
	UnsignedInt DataType = 0x1405
)

// Primitive is the topology used by draw calls.
type Primitive uint32

const (
	Points    Primitive = 0x0000
	Lines     Primitive = 0x0001
	Triangles Primitive = 0x0004
)

// PolygonMode is the rasterization mode for front and back faces.
type PolygonMode uint32

const (
	Point PolygonMode = 0x1B00
	Line  PolygonMode = 0x1B01
	Fill  PolygonMode = 0x1B02
)

func (mode PolygonMode) String() string {
	switch mode {
	case Point:
		return "Point"
	case Line:
		return "Line"
	case Fill:
		return "Fill"
	}
	return "PolygonMode(?)"
}

// Error codes reported by Device.GetError.
const (
	NoError          = 0
	InvalidEnum      = 0x0500
	InvalidValue     = 0x0501
	InvalidOperation = 0x0502
	OutOfMemory      = 0x0505
)

// SetPolygonMode switches the rasterization mode for subsequent draws.
func SetPolygonMode(dev Device, mode PolygonMode) { dev.PolygonMode(mode) }

// ClearColor sets the color used by Clear.
func ClearColor(dev Device, r, g, b, a float32) { dev.ClearColor(r, g, b, a) }

// CheckError returns the oldest pending device error, if any.
func CheckError(dev Device) error {
	code := dev.GetError()
	if code == NoError {
		return nil
	}
	return &DeviceError{Code: code}
}
