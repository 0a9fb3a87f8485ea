package gpu_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adinfinit/quad/internal/gpu"
	"github.com/adinfinit/quad/internal/gpu/gputest"
)

const passthroughVertex = `#version 330 core
layout (location = 0) in vec3 pos;
void main() {
	gl_Position = vec4(pos, 1.0);
}
`

const constantFragment = `#version 330 core
out vec4 final_color;
void main() {
	final_color = vec4(1.0, 0.5, 0.2, 1.0);
}
`

const brokenSource = `#version 330 core
void mian() {}
`

func TestCompileShader(t *testing.T) {
	dev := gputest.New()

	shader, err := gpu.CompileShader(dev, gpu.VertexStage, passthroughVertex)
	require.NoError(t, err)
	require.True(t, shader.Compiled())
	require.Equal(t, gpu.VertexStage, shader.Stage())
	require.Equal(t, passthroughVertex, shader.Source())
	require.Equal(t, "", shader.InfoLog())
	require.Equal(t, gpu.Live, shader.State())
}

func TestCompileShaderFailure(t *testing.T) {
	dev := gputest.New()

	shader, err := gpu.CompileShader(dev, gpu.FragmentStage, brokenSource)
	require.Nil(t, shader)

	var compileErr *gpu.CompileError
	require.True(t, errors.As(err, &compileErr))
	require.Equal(t, gpu.FragmentStage, compileErr.Stage)
	require.Equal(t, "0:1(1): error: function `main' not defined\n", err.Error())
	require.NotContains(t, err.Error(), "\x00")
}

func TestShaderSetSourceLastWins(t *testing.T) {
	dev := gputest.New()
	shader, err := gpu.NewShader(dev, gpu.VertexStage)
	require.NoError(t, err)

	require.NoError(t, shader.SetSource(brokenSource))
	require.NoError(t, shader.SetSource(passthroughVertex))
	require.NoError(t, shader.Compile())
	require.True(t, shader.Compiled())
}

func TestShaderDispose(t *testing.T) {
	dev := gputest.New()
	shader, err := gpu.CompileShader(dev, gpu.VertexStage, passthroughVertex)
	require.NoError(t, err)

	shader.Dispose()
	require.Equal(t, gpu.Reclaimed, shader.State())
	require.ErrorIs(t, shader.SetSource(passthroughVertex), gpu.ErrDisposed)
	require.ErrorIs(t, shader.Compile(), gpu.ErrDisposed)
	require.False(t, shader.Compiled())

	shader.Dispose()
}

func TestShaderDisposeDeferredWhileAttached(t *testing.T) {
	dev := gputest.New()
	program, err := gpu.NewProgram(dev)
	require.NoError(t, err)
	shader, err := gpu.CompileShader(dev, gpu.VertexStage, passthroughVertex)
	require.NoError(t, err)
	require.NoError(t, program.Attach(shader))

	shader.Dispose()
	require.Equal(t, gpu.MarkedForDeletion, shader.State())

	require.NoError(t, program.Detach(shader))
	require.Equal(t, gpu.Reclaimed, shader.State())
}

func TestNewShaderAllocationFailure(t *testing.T) {
	dev := gputest.New()
	dev.FailShaders = true

	_, err := gpu.CompileShader(dev, gpu.VertexStage, passthroughVertex)
	var alloc *gpu.AllocationError
	require.True(t, errors.As(err, &alloc))
	require.Equal(t, "could not allocate shader", err.Error())
}

func TestProgramLookup(t *testing.T) {
	dev := gputest.New()
	program, err := gpu.NewProgram(dev)
	require.NoError(t, err)
	vertex, err := gpu.CompileShader(dev, gpu.VertexStage, passthroughVertex)
	require.NoError(t, err)
	fragment, err := gpu.CompileShader(dev, gpu.FragmentStage, constantFragment)
	require.NoError(t, err)

	require.NoError(t, program.Attach(vertex))
	require.NoError(t, program.Attach(fragment))

	id, ok := program.Lookup(passthroughVertex)
	require.True(t, ok)
	require.Equal(t, vertex.ID(), id)

	id, ok = program.Lookup(constantFragment)
	require.True(t, ok)
	require.Equal(t, fragment.ID(), id)

	_, ok = program.Lookup(brokenSource)
	require.False(t, ok)

	require.NoError(t, program.Detach(vertex))
	_, ok = program.Lookup(passthroughVertex)
	require.False(t, ok)
	_, ok = program.Lookup(constantFragment)
	require.True(t, ok)
}

func TestBuildProgram(t *testing.T) {
	dev := gputest.New()

	program, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	require.NoError(t, err)
	require.True(t, program.Linked())
	require.Equal(t, []gpu.Stage{gpu.VertexStage, gpu.FragmentStage}, dev.Shaders)

	vertex, ok := program.Lookup(passthroughVertex)
	require.True(t, ok)
	fragment, ok := program.Lookup(constantFragment)
	require.True(t, ok)

	require.ElementsMatch(t, []uint32{vertex, fragment}, dev.Attached(program.ID()))
	require.True(t, dev.IsShader(vertex), "disposed shaders stay alive while attached")
	require.True(t, dev.IsShader(fragment))
	require.Empty(t, dev.Errors())
}

func TestBuildProgramVertexFailureShortCircuits(t *testing.T) {
	dev := gputest.New()

	program, err := gpu.BuildProgram(dev, brokenSource, constantFragment)
	require.Nil(t, program)
	require.True(t, strings.HasPrefix(err.Error(), "Vertex Compile Error: "), err.Error())

	var buildErr *gpu.BuildError
	require.True(t, errors.As(err, &buildErr))
	require.Equal(t, gpu.VertexCompile, buildErr.Step)

	require.Equal(t, []gpu.Stage{gpu.VertexStage}, dev.Shaders, "fragment stage must not be compiled")
	require.False(t, dev.IsProgram(1), "failed build leaves no program")
}

func TestBuildProgramFragmentFailure(t *testing.T) {
	dev := gputest.New()

	_, err := gpu.BuildProgram(dev, passthroughVertex, brokenSource)
	require.True(t, strings.HasPrefix(err.Error(), "Fragment Compile Error: "), err.Error())

	var compileErr *gpu.CompileError
	require.True(t, errors.As(err, &compileErr))
	require.Equal(t, gpu.FragmentStage, compileErr.Stage)

	for id := uint32(1); id <= 3; id++ {
		require.False(t, dev.IsProgram(id))
		require.False(t, dev.IsShader(id))
	}
}

func TestBuildProgramLinkFailure(t *testing.T) {
	dev := gputest.New()
	dev.FailLinks = true

	program, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	require.Nil(t, program)

	var buildErr *gpu.BuildError
	require.True(t, errors.As(err, &buildErr))
	require.Equal(t, gpu.ProgramLink, buildErr.Step)

	var linkErr *gpu.LinkError
	require.True(t, errors.As(err, &linkErr))
	require.Equal(t, "Program Link Error: error: linking failed: out of resources\n", err.Error())

	require.Equal(t, []gpu.Stage{gpu.VertexStage, gpu.FragmentStage}, dev.Shaders)
	for id := uint32(1); id <= 3; id++ {
		require.False(t, dev.IsProgram(id), "program %d", id)
		require.False(t, dev.IsShader(id), "shader %d", id)
	}
	require.Empty(t, dev.Errors())
}

func TestBuildProgramAllocationFailure(t *testing.T) {
	dev := gputest.New()
	dev.FailPrograms = true

	_, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	var alloc *gpu.AllocationError
	require.True(t, errors.As(err, &alloc))
	require.Empty(t, dev.Shaders)
}

func TestProgramDispose(t *testing.T) {
	dev := gputest.New()
	program, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	require.NoError(t, err)
	require.NoError(t, program.Activate())

	program.Dispose()
	require.Equal(t, gpu.MarkedForDeletion, program.State(), "active program is kept")
	require.ErrorIs(t, program.Activate(), gpu.ErrDisposed)
	_, ok := program.Lookup(passthroughVertex)
	require.False(t, ok)

	dev.UseProgram(0)
	require.Equal(t, gpu.Reclaimed, program.State())
	require.False(t, dev.IsShader(1+program.ID()))
}

func TestDrawIndexedQuad(t *testing.T) {
	dev := gputest.New()
	program, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	require.NoError(t, err)
	array, err := gpu.NewVertexArray(dev)
	require.NoError(t, err)
	vertices, err := gpu.NewBuffer(dev, gpu.ArrayBuffer)
	require.NoError(t, err)
	indices, err := gpu.NewBuffer(dev, gpu.ElementArrayBuffer)
	require.NoError(t, err)

	array.Bind()
	vertices.Upload(floatBytes(
		0.5, 0.5, 0,
		0.5, -0.5, 0,
		-0.5, -0.5, 0,
		-0.5, 0.5, 0,
	), gpu.DynamicDraw)
	array.SetAttribute(vertices, gpu.Attribute{Components: 3, Type: gpu.Float, Stride: 12})
	array.SetIndexBuffer(indices)
	indices.Upload(uintBytes(0, 1, 3, 1, 2, 3), gpu.DynamicDraw)

	require.NoError(t, program.Activate())
	require.NoError(t, gpu.DrawIndexed(dev, program, array, gpu.Triangles, 6))
	require.NoError(t, gpu.CheckError(dev))

	require.Equal(t, []gputest.Draw{{
		Program: program.ID(),
		Array:   array.ID(),
		Mode:    gpu.Triangles,
		Count:   6,
		Polygon: gpu.Fill,
	}}, dev.Draws)
}

func TestDrawIndexedRestoresBindings(t *testing.T) {
	dev := gputest.New()
	program, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	require.NoError(t, err)
	array, err := gpu.NewVertexArray(dev)
	require.NoError(t, err)
	indices, err := gpu.NewBuffer(dev, gpu.ElementArrayBuffer)
	require.NoError(t, err)
	array.SetIndexBuffer(indices)
	array.Bind()
	indices.Upload(uintBytes(0, 1, 2), gpu.StaticDraw)
	gpu.ClearBinding(dev)

	require.NoError(t, gpu.DrawIndexed(dev, program, array, gpu.Triangles, 3))
	require.Zero(t, dev.CurrentProgram())
	require.Zero(t, dev.BoundVertexArray())
	require.Len(t, dev.Draws, 1)
}

func TestDrawWithoutIndicesReportsError(t *testing.T) {
	dev := gputest.New()
	program, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	require.NoError(t, err)
	array, err := gpu.NewVertexArray(dev)
	require.NoError(t, err)

	require.NoError(t, gpu.DrawIndexed(dev, program, array, gpu.Triangles, 6))

	err = gpu.CheckError(dev)
	var deviceErr *gpu.DeviceError
	require.True(t, errors.As(err, &deviceErr))
	require.Equal(t, uint32(gpu.InvalidOperation), deviceErr.Code)
	require.Equal(t, "gl: invalid operation", err.Error())
	require.NoError(t, gpu.CheckError(dev))
}

func uintBytes(values ...uint32) []byte {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		data[4*i+0] = byte(v)
		data[4*i+1] = byte(v >> 8)
		data[4*i+2] = byte(v >> 16)
		data[4*i+3] = byte(v >> 24)
	}
	return data
}

func TestProgramAttachTwice(t *testing.T) {
	dev := gputest.New()
	program, err := gpu.NewProgram(dev)
	require.NoError(t, err)
	shader, err := gpu.CompileShader(dev, gpu.VertexStage, passthroughVertex)
	require.NoError(t, err)

	require.NoError(t, program.Attach(shader))
	require.NoError(t, program.Attach(shader))
	require.Equal(t, []uint32{gpu.InvalidOperation}, dev.Errors())

	require.NoError(t, program.Detach(shader))
	_, ok := program.Lookup(passthroughVertex)
	require.False(t, ok, "a single detach forgets the shader")
}

func TestReclaimedNameReused(t *testing.T) {
	dev := gputest.New()
	dev.ReuseNames = true

	shader, err := gpu.CompileShader(dev, gpu.VertexStage, passthroughVertex)
	require.NoError(t, err)
	shader.Dispose()

	other, err := gpu.CompileShader(dev, gpu.VertexStage, passthroughVertex)
	require.NoError(t, err)
	require.Equal(t, shader.ID(), other.ID())
	require.Equal(t, gpu.Reclaimed, shader.State())
	require.Equal(t, gpu.Live, other.State())

	program, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	require.NoError(t, err)
	require.NoError(t, program.Activate())
	program.Dispose()
	require.Equal(t, gpu.MarkedForDeletion, program.State())

	dev.UseProgram(0)
	require.Equal(t, gpu.Reclaimed, program.State())

	next, err := gpu.BuildProgram(dev, passthroughVertex, constantFragment)
	require.NoError(t, err)
	require.Equal(t, program.ID(), next.ID())
	require.Equal(t, gpu.Reclaimed, program.State())
}
