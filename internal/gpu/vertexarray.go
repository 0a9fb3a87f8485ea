package gpu

// VertexArray describes how bound buffers feed shader input attributes.
type VertexArray struct {
	dev Device
	id  uint32
}

// NewVertexArray allocates a vertex array object.
func NewVertexArray(dev Device) (*VertexArray, error) {
	id := dev.GenVertexArray()
	if id == 0 {
		return nil, &AllocationError{Object: "vertex array object"}
	}
	return &VertexArray{dev: dev, id: id}, nil
}

func (array *VertexArray) ID() uint32 { return array.id }

// Bind makes array the active attribute layout.
func (array *VertexArray) Bind() { array.dev.BindVertexArray(array.id) }

// ClearBinding unbinds whatever vertex array is active.
func ClearBinding(dev Device) { dev.BindVertexArray(0) }

// BindScoped binds array and returns a guard restoring the previous binding.
func (array *VertexArray) BindScoped() Binding {
	prev := array.dev.BoundVertexArray()
	if prev != array.id {
		array.dev.BindVertexArray(array.id)
	}
	return Binding{release: func() {
		if prev != array.id {
			array.dev.BindVertexArray(prev)
		}
	}}
}

// Attribute describes one shader input fed from a buffer.
type Attribute struct {
	Index      uint32
	Components int32
	Type       DataType
	Normalized bool
	Stride     int32
	Offset     int
}

// SetAttribute configures and enables attribute as sourced from buffer.
func (array *VertexArray) SetAttribute(buffer *Buffer, attribute Attribute) {
	defer array.BindScoped().Release()
	defer buffer.BindScoped().Release()

	array.dev.VertexAttribPointer(
		attribute.Index,
		attribute.Components,
		attribute.Type,
		attribute.Normalized,
		attribute.Stride,
		attribute.Offset,
	)
	array.dev.EnableVertexAttribArray(attribute.Index)
}

// SetIndexBuffer records buffer as the element buffer of array.
func (array *VertexArray) SetIndexBuffer(buffer *Buffer) {
	defer array.BindScoped().Release()
	array.dev.BindBuffer(ElementArrayBuffer, buffer.ID())
}

// Delete releases the vertex array object.
func (array *VertexArray) Delete() {
	if array.id == 0 {
		return
	}
	array.dev.DeleteVertexArray(array.id)
	array.id = 0
}

// DrawIndexed draws count indices from array's element buffer using program.
// Both bindings are restored afterwards.
func DrawIndexed(dev Device, program *Program, array *VertexArray, mode Primitive, count int) error {
	use, err := program.ActivateScoped()
	if err != nil {
		return err
	}
	defer use.Release()
	defer array.BindScoped().Release()

	dev.DrawElements(mode, int32(count), UnsignedInt, 0)
	return nil
}
