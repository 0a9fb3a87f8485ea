package gpu

// Buffer is a device buffer object for a single binding target.
type Buffer struct {
	dev    Device
	target BufferTarget
	id     uint32
	size   int
}

// NewBuffer allocates a buffer object that will be used with target.
func NewBuffer(dev Device, target BufferTarget) (*Buffer, error) {
	id := dev.GenBuffer()
	if id == 0 {
		return nil, &AllocationError{Object: "buffer object"}
	}
	return &Buffer{dev: dev, target: target, id: id}, nil
}

func (buffer *Buffer) ID() uint32           { return buffer.id }
func (buffer *Buffer) Target() BufferTarget { return buffer.target }

// Size returns the store size set by the last Upload.
func (buffer *Buffer) Size() int { return buffer.size }

// Bind makes buffer the active buffer of its target.
func (buffer *Buffer) Bind() { buffer.dev.BindBuffer(buffer.target, buffer.id) }

// Unbind clears the binding of buffer's target.
func (buffer *Buffer) Unbind() { buffer.dev.BindBuffer(buffer.target, 0) }

// BindScoped binds buffer and returns a guard restoring the previous binding.
func (buffer *Buffer) BindScoped() Binding {
	prev := buffer.dev.BoundBuffer(buffer.target)
	if prev != buffer.id {
		buffer.dev.BindBuffer(buffer.target, buffer.id)
	}
	return Binding{release: func() {
		if prev != buffer.id {
			buffer.dev.BindBuffer(buffer.target, prev)
		}
	}}
}

// Upload replaces the whole store of buffer with data.
func (buffer *Buffer) Upload(data []byte, usage Usage) {
	defer buffer.BindScoped().Release()
	buffer.dev.BufferData(buffer.target, data, usage)
	buffer.size = len(data)
}

// UploadPartial overwrites data at offset without reallocating the store.
// The range must lie inside the store created by the last Upload.
func (buffer *Buffer) UploadPartial(data []byte, offset int) error {
	if err := buffer.checkRange(offset, len(data)); err != nil {
		return err
	}
	defer buffer.BindScoped().Release()
	buffer.dev.BufferSubData(buffer.target, offset, data)
	return nil
}

// Read copies len(data) bytes starting at offset back from the device.
func (buffer *Buffer) Read(data []byte, offset int) error {
	if err := buffer.checkRange(offset, len(data)); err != nil {
		return err
	}
	defer buffer.BindScoped().Release()
	buffer.dev.GetBufferSubData(buffer.target, offset, data)
	return nil
}

func (buffer *Buffer) checkRange(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > buffer.size {
		return &RangeError{Offset: offset, Length: length, Size: buffer.size}
	}
	return nil
}

// Delete releases the buffer object.
func (buffer *Buffer) Delete() {
	if buffer.id == 0 {
		return
	}
	buffer.dev.DeleteBuffer(buffer.id)
	buffer.id = 0
	buffer.size = 0
}

// Binding restores a previous device binding when released.
type Binding struct {
	release func()
}

// Release restores the binding that was active before the guard was taken.
func (binding Binding) Release() {
	if binding.release != nil {
		binding.release()
	}
}
