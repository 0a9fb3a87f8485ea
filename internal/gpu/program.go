package gpu

// Program is a linked shader program.
//
// Attached shaders are remembered by the fingerprint of their source,
// so Lookup can resolve a source text back to its shader object.
type Program struct {
	dev       Device
	id        uint32
	attached  []attachment
	disposed  bool
	reclaimed bool
}

type attachment struct {
	fingerprint uint32
	shader      uint32
}

// NewProgram allocates a program object.
//
// Prefer BuildProgram, which compiles, attaches and links in one step.
func NewProgram(dev Device) (*Program, error) {
	id := dev.CreateProgram()
	if id == 0 {
		return nil, &AllocationError{Object: "program"}
	}
	return &Program{dev: dev, id: id}, nil
}

func (program *Program) ID() uint32 { return program.id }

// Attach attaches shader and records it under the fingerprint of its source.
func (program *Program) Attach(shader *Shader) error {
	if program.disposed {
		return ErrDisposed
	}
	if shader.disposed {
		return ErrDisposed
	}
	program.dev.AttachShader(program.id, shader.id)
	for _, entry := range program.attached {
		if entry.shader == shader.id {
			return nil
		}
	}
	program.attached = append(program.attached, attachment{
		fingerprint: Fingerprint(shader.source),
		shader:      shader.id,
	})
	return nil
}

// Detach detaches shader and forgets its fingerprint entry.
// A disposed shader may still be detached.
func (program *Program) Detach(shader *Shader) error {
	if program.disposed {
		return ErrDisposed
	}
	program.dev.DetachShader(program.id, shader.id)

	kept := program.attached[:0]
	for _, entry := range program.attached {
		if entry.shader != shader.id {
			kept = append(kept, entry)
		}
	}
	program.attached = kept
	return nil
}

// Link links the attached shaders; use Linked to check the result.
func (program *Program) Link() error {
	if program.disposed {
		return ErrDisposed
	}
	program.dev.LinkProgram(program.id)
	return nil
}

// Linked reports whether the last Link succeeded.
func (program *Program) Linked() bool {
	if program.disposed {
		return false
	}
	return program.dev.ProgramLinked(program.id)
}

// InfoLog returns the linker log, or "" when there is none.
func (program *Program) InfoLog() string {
	if program.disposed {
		return ""
	}
	n := program.dev.ProgramInfoLogLength(program.id)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	written := program.dev.ProgramInfoLog(program.id, buf)
	return trimLog(buf, written)
}

// Lookup returns the shader that was attached with the given source.
func (program *Program) Lookup(source string) (uint32, bool) {
	fingerprint := Fingerprint(source)
	for _, entry := range program.attached {
		if entry.fingerprint == fingerprint {
			return entry.shader, true
		}
	}
	return 0, false
}

// Activate makes program the active program for draw calls.
func (program *Program) Activate() error {
	if program.disposed {
		return ErrDisposed
	}
	program.dev.UseProgram(program.id)
	return nil
}

// ActivateScoped activates program and returns a guard restoring the
// previously active program.
func (program *Program) ActivateScoped() (Binding, error) {
	if program.disposed {
		return Binding{}, ErrDisposed
	}
	prev := program.dev.CurrentProgram()
	if prev != program.id {
		program.dev.UseProgram(program.id)
	}
	return Binding{release: func() {
		if prev != program.id {
			program.dev.UseProgram(prev)
		}
	}}, nil
}

// Dispose marks the program for deletion. The device keeps it alive while
// it is the active program; attached shaders are detached when it goes.
func (program *Program) Dispose() {
	if program.disposed {
		return
	}
	program.disposed = true
	program.attached = nil
	program.dev.DeleteProgram(program.id)
	program.reclaimed = !program.dev.IsProgram(program.id)
}

// State reports the deletion state of the program.
func (program *Program) State() Lifecycle {
	switch {
	case !program.disposed:
		return Live
	case !program.reclaimed && program.dev.IsProgram(program.id):
		return MarkedForDeletion
	}
	// names of reclaimed objects may be handed out again
	program.reclaimed = true
	return Reclaimed
}

// BuildProgram compiles vertex and fragment sources and links them.
//
// Steps run in order and the first failure stops the pipeline; anything
// allocated so far is disposed before the *BuildError is returned.
func BuildProgram(dev Device, vertexSource, fragmentSource string) (*Program, error) {
	program, err := NewProgram(dev)
	if err != nil {
		return nil, err
	}

	vertex, err := CompileShader(dev, VertexStage, vertexSource)
	if err != nil {
		program.Dispose()
		return nil, &BuildError{Step: VertexCompile, Err: err}
	}
	defer vertex.Dispose()
	if err := program.Attach(vertex); err != nil {
		program.Dispose()
		return nil, &BuildError{Step: VertexCompile, Err: err}
	}

	fragment, err := CompileShader(dev, FragmentStage, fragmentSource)
	if err != nil {
		program.Dispose()
		return nil, &BuildError{Step: FragmentCompile, Err: err}
	}
	defer fragment.Dispose()
	if err := program.Attach(fragment); err != nil {
		program.Dispose()
		return nil, &BuildError{Step: FragmentCompile, Err: err}
	}

	if err := program.Link(); err != nil {
		return nil, &BuildError{Step: ProgramLink, Err: err}
	}
	if !program.Linked() {
		log := program.InfoLog()
		program.Dispose()
		return nil, &BuildError{Step: ProgramLink, Err: &LinkError{Log: log}}
	}
	return program, nil
}
