package gpu

import (
	"errors"
	"fmt"
)

// ErrDisposed is returned when an object is used after it was marked for deletion.
var ErrDisposed = errors.New("object marked for deletion")

// AllocationError is returned when the device could not create an object.
type AllocationError struct {
	Object string
}

func (err *AllocationError) Error() string {
	return "could not allocate " + err.Object
}

// CompileError carries the compiler log of a failed shader.
type CompileError struct {
	Stage Stage
	Log   string
}

func (err *CompileError) Error() string { return err.Log }

// LinkError carries the linker log of a failed program.
type LinkError struct {
	Log string
}

func (err *LinkError) Error() string { return err.Log }

// BuildStep names the step of BuildProgram that failed.
type BuildStep int

const (
	VertexCompile BuildStep = iota
	FragmentCompile
	ProgramLink
)

func (step BuildStep) String() string {
	switch step {
	case VertexCompile:
		return "Vertex Compile Error"
	case FragmentCompile:
		return "Fragment Compile Error"
	case ProgramLink:
		return "Program Link Error"
	}
	return "Build Error"
}

// BuildError is returned by BuildProgram.
type BuildError struct {
	Step BuildStep
	Err  error
}

func (err *BuildError) Error() string {
	return fmt.Sprintf("%v: %v", err.Step, err.Err)
}

func (err *BuildError) Unwrap() error { return err.Err }

// RangeError is returned when a partial upload or read falls outside the
// store created by the last full upload.
type RangeError struct {
	Offset int
	Length int
	Size   int
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("range [%d, %d) outside buffer of %d bytes", err.Offset, err.Offset+err.Length, err.Size)
}

// DeviceError is an error code reported by the device.
type DeviceError struct {
	Code uint32
}

func (err *DeviceError) Error() string {
	switch err.Code {
	case InvalidEnum:
		return "gl: invalid enum"
	case InvalidValue:
		return "gl: invalid value"
	case InvalidOperation:
		return "gl: invalid operation"
	case OutOfMemory:
		return "gl: out of memory"
	}
	return fmt.Sprintf("gl: error 0x%04x", err.Code)
}
