package gpu

import "strings"

// Lifecycle is the deletion state of a shader or program.
//
// Dispose moves an object to MarkedForDeletion; the device decides when
// it is Reclaimed, e.g. once a shader is no longer attached to any program.
type Lifecycle int

const (
	Live Lifecycle = iota
	MarkedForDeletion
	Reclaimed
)

func (state Lifecycle) String() string {
	switch state {
	case Live:
		return "Live"
	case MarkedForDeletion:
		return "MarkedForDeletion"
	case Reclaimed:
		return "Reclaimed"
	}
	return "Lifecycle(?)"
}

// Shader is a single compiled shader stage.
type Shader struct {
	dev       Device
	stage     Stage
	id        uint32
	source    string
	disposed  bool
	reclaimed bool
}

// NewShader allocates a shader object for stage.
//
// Prefer CompileShader, or BuildProgram for a complete program.
func NewShader(dev Device, stage Stage) (*Shader, error) {
	id := dev.CreateShader(stage)
	if id == 0 {
		return nil, &AllocationError{Object: "shader"}
	}
	return &Shader{dev: dev, stage: stage, id: id}, nil
}

func (shader *Shader) ID() uint32     { return shader.id }
func (shader *Shader) Stage() Stage   { return shader.stage }
func (shader *Shader) Source() string { return shader.source }

// SetSource replaces any previously assigned source.
func (shader *Shader) SetSource(source string) error {
	if shader.disposed {
		return ErrDisposed
	}
	shader.dev.ShaderSource(shader.id, source)
	shader.source = source
	return nil
}

// Compile compiles the current source; use Compiled to check the result.
func (shader *Shader) Compile() error {
	if shader.disposed {
		return ErrDisposed
	}
	shader.dev.CompileShader(shader.id)
	return nil
}

// Compiled reports whether the last Compile succeeded.
func (shader *Shader) Compiled() bool {
	if shader.disposed {
		return false
	}
	return shader.dev.ShaderCompiled(shader.id)
}

// InfoLog returns the compiler log, or "" when there is none.
func (shader *Shader) InfoLog() string {
	if shader.disposed {
		return ""
	}
	n := shader.dev.ShaderInfoLogLength(shader.id)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	written := shader.dev.ShaderInfoLog(shader.id, buf)
	return trimLog(buf, written)
}

// Dispose marks the shader for deletion. No further operations are valid.
func (shader *Shader) Dispose() {
	if shader.disposed {
		return
	}
	shader.disposed = true
	shader.dev.DeleteShader(shader.id)
	shader.reclaimed = !shader.dev.IsShader(shader.id)
}

// State reports the deletion state of the shader.
func (shader *Shader) State() Lifecycle {
	switch {
	case !shader.disposed:
		return Live
	case !shader.reclaimed && shader.dev.IsShader(shader.id):
		return MarkedForDeletion
	}
	// names of reclaimed objects may be handed out again
	shader.reclaimed = true
	return Reclaimed
}

// CompileShader creates and compiles a shader from source.
// On failure the shader is disposed and the compiler log is returned
// as a *CompileError.
func CompileShader(dev Device, stage Stage, source string) (*Shader, error) {
	shader, err := NewShader(dev, stage)
	if err != nil {
		return nil, err
	}
	if err := shader.SetSource(source); err != nil {
		return nil, err
	}
	if err := shader.Compile(); err != nil {
		return nil, err
	}
	if !shader.Compiled() {
		log := shader.InfoLog()
		shader.Dispose()
		return nil, &CompileError{Stage: stage, Log: log}
	}
	return shader, nil
}

// trimLog cuts a device log to the written length and drops the terminator.
func trimLog(buf []byte, written int32) string {
	if written < 0 {
		written = 0
	}
	if int(written) < len(buf) {
		buf = buf[:written]
	}
	return strings.TrimRight(string(buf), "\x00")
}
