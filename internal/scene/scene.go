// Package scene drives the editable quad: it owns the program, the vertex
// array and both buffers, reacts to input and draws one frame at a time.
package scene

import (
	"fmt"
	"time"

	"github.com/adinfinit/g"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"

	"github.com/adinfinit/quad/internal/gpu"
)

// State is the lifecycle state of a Scene.
type State int

const (
	Initializing State = iota
	Running
	ShuttingDown
)

func (state State) String() string {
	switch state {
	case Initializing:
		return "Initializing"
	case Running:
		return "Running"
	case ShuttingDown:
		return "ShuttingDown"
	}
	return "State(?)"
}

// Config holds the settings of a Scene.
type Config struct {
	ClearColor mgl32.Vec4

	// ToggleKey moves vertex ToggleVertex to ToggleBase + k*ToggleStep,
	// with k alternating between -1 and 1 on successive presses.
	ToggleKey    Key
	ToggleVertex int
	ToggleBase   mgl32.Vec3
	ToggleStep   mgl32.Vec3

	VertexShader   string
	FragmentShader string
}

func DefaultConfig() Config {
	return Config{
		ClearColor:     mgl32.Vec4{0.2, 0.3, 0.3, 1.0},
		ToggleKey:      KeySpace,
		ToggleVertex:   2,
		ToggleBase:     mgl32.Vec3{0.5, 0.5, 0},
		ToggleStep:     mgl32.Vec3{-0.5, 0, 0},
		VertexShader:   VertexShader,
		FragmentShader: FragmentShader,
	}
}

// Stats are timings of the last frame.
type Stats struct {
	Frames uint64
	Events time.Duration
	Render time.Duration
}

// Scene is the frame driver.
type Scene struct {
	Config Config
	Mesh   Mesh
	Stats  Stats

	// AfterFrame, when set, is called after every presented frame.
	AfterFrame func(*Scene)

	dev   gpu.Device
	state State
	mode  gpu.PolygonMode
	k     float32

	program  *gpu.Program
	array    *gpu.VertexArray
	vertices *gpu.Buffer
	indices  *gpu.Buffer
}

// New uploads mesh and builds everything needed to draw it.
// The returned scene is Running.
func New(dev gpu.Device, config Config, mesh Mesh) (*Scene, error) {
	if config.ToggleVertex < 0 || config.ToggleVertex >= len(mesh.Vertices) {
		return nil, fmt.Errorf("toggle vertex %d outside mesh of %d vertices", config.ToggleVertex, len(mesh.Vertices))
	}

	scene := &Scene{
		Config: config,
		Mesh:   mesh,
		dev:    dev,
		state:  Initializing,
		k:      -1,
	}

	c := config.ClearColor
	gpu.ClearColor(dev, c[0], c[1], c[2], c[3])

	var err error
	scene.program, err = gpu.BuildProgram(dev, config.VertexShader, config.FragmentShader)
	if err != nil {
		return nil, err
	}
	if err := scene.program.Activate(); err != nil {
		return nil, err
	}

	scene.array, err = gpu.NewVertexArray(dev)
	if err != nil {
		return nil, err
	}
	scene.array.Bind()

	scene.vertices, err = gpu.NewBuffer(dev, gpu.ArrayBuffer)
	if err != nil {
		return nil, err
	}
	scene.vertices.Upload(mesh.VertexBytes(0, len(mesh.Vertices)), gpu.DynamicDraw)

	scene.array.SetAttribute(scene.vertices, gpu.Attribute{
		Index:      0,
		Components: 3,
		Type:       gpu.Float,
		Normalized: false,
		Stride:     int32(VertexSize),
		Offset:     0,
	})

	scene.indices, err = gpu.NewBuffer(dev, gpu.ElementArrayBuffer)
	if err != nil {
		return nil, err
	}
	scene.array.SetIndexBuffer(scene.indices)
	scene.indices.Upload(mesh.IndexBytes(), gpu.DynamicDraw)

	scene.SetPolygonMode(gpu.Fill)
	scene.state = Running
	return scene, nil
}

func (scene *Scene) State() State                 { return scene.state }
func (scene *Scene) PolygonMode() gpu.PolygonMode { return scene.mode }
func (scene *Scene) Program() *gpu.Program        { return scene.program }
func (scene *Scene) Vertices() *gpu.Buffer        { return scene.vertices }
func (scene *Scene) Indices() *gpu.Buffer         { return scene.indices }

// SetPolygonMode switches the rasterization mode for subsequent frames.
func (scene *Scene) SetPolygonMode(mode gpu.PolygonMode) {
	scene.mode = mode
	gpu.SetPolygonMode(scene.dev, mode)
}

// Handle applies a single input event.
func (scene *Scene) Handle(event Event) error {
	switch event := event.(type) {
	case QuitEvent:
		scene.state = ShuttingDown
	case KeyEvent:
		if !event.Pressed {
			return nil
		}
		switch event.Key {
		case scene.Config.ToggleKey:
			return scene.toggle()
		case KeyEscape:
			scene.state = ShuttingDown
		case KeyL:
			scene.SetPolygonMode(gpu.Line)
		case KeyF:
			scene.SetPolygonMode(gpu.Fill)
		case KeyP:
			scene.SetPolygonMode(gpu.Point)
		}
	}
	return nil
}

func (scene *Scene) toggle() error {
	p := scene.Config.ToggleBase.Add(scene.Config.ToggleStep.Mul(scene.k))
	scene.k = -scene.k

	i := scene.Config.ToggleVertex
	scene.Mesh.Vertices[i] = g.V3(p.X(), p.Y(), p.Z())
	return scene.UpdateVertex(i)
}

// UpdateVertex re-uploads vertex i only.
func (scene *Scene) UpdateVertex(i int) error {
	return scene.UpdateVertexRange(i, 1)
}

// UpdateVertexRange re-uploads vertices [first, first+count).
func (scene *Scene) UpdateVertexRange(first, count int) error {
	if first < 0 || count < 0 || first+count > len(scene.Mesh.Vertices) {
		return fmt.Errorf("vertex range [%d, %d) outside mesh of %d vertices", first, first+count, len(scene.Mesh.Vertices))
	}
	return scene.vertices.UploadPartial(scene.Mesh.VertexBytes(first, count), VertexOffset(first))
}

// UpdateVertices re-uploads all vertices into the existing store.
func (scene *Scene) UpdateVertices() error {
	return scene.UpdateVertexRange(0, len(scene.Mesh.Vertices))
}

// Render clears the screen and draws the mesh.
func (scene *Scene) Render() error {
	scene.dev.Clear()
	return gpu.DrawIndexed(scene.dev, scene.program, scene.array, gpu.Triangles, scene.Mesh.IndexCount())
}

// Frame drains pending events and, unless one of them ended the scene,
// renders and presents a frame.
func (scene *Scene) Frame(events EventSource, presenter Presenter) error {
	start := hrtime.Now()
	for _, event := range events.PollEvents() {
		if err := scene.Handle(event); err != nil {
			return err
		}
		if scene.state == ShuttingDown {
			return nil
		}
	}
	scene.Stats.Events = hrtime.Since(start)

	start = hrtime.Now()
	if err := scene.Render(); err != nil {
		return err
	}
	presenter.SwapBuffers()
	scene.Stats.Render = hrtime.Since(start)
	scene.Stats.Frames++
	if scene.AfterFrame != nil {
		scene.AfterFrame(scene)
	}
	return nil
}

// Run renders frames until the scene is shutting down.
func (scene *Scene) Run(events EventSource, presenter Presenter) error {
	for scene.state == Running {
		if err := scene.Frame(events, presenter); err != nil {
			return err
		}
	}
	return nil
}
