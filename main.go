package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/adinfinit/quad/internal/gpu"
	"github.com/adinfinit/quad/internal/gpu/gldevice"
	"github.com/adinfinit/quad/internal/platform"
	"github.com/adinfinit/quad/internal/scene"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "profile")

	windowWidth  = flag.Int("width", 1280, "window width")
	windowHeight = flag.Int("height", 720, "window height")
	windowTitle  = flag.String("title", "Quad", "window title")

	glMajor = flag.Int("gl-major", 4, "OpenGL core profile major version")
	glMinor = flag.Int("gl-minor", 1, "OpenGL core profile minor version")
	vsync   = flag.Bool("vsync", true, "wait for vertical sync when presenting")
)

// frames between window title updates
const statsInterval = 60

func init() { runtime.LockOSThread() }

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatalf("unable to create cpu-profile %q: %v", *cpuprofile, err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("unable to start cpu-profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := platform.Init(); err != nil {
		log.Fatalln(err)
	}
	defer platform.Terminate()

	window, err := platform.Open(platform.Config{
		Width:   *windowWidth,
		Height:  *windowHeight,
		Title:   *windowTitle,
		GLMajor: *glMajor,
		GLMinor: *glMinor,
		VSync:   *vsync,
	})
	if err != nil {
		log.Fatalln(err)
	}

	dev, err := gldevice.New()
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("OpenGL version", dev.Version())

	quad, err := scene.New(dev, scene.DefaultConfig(), scene.Quad())
	if err != nil {
		log.Fatalln(err)
	}
	if err := gpu.CheckError(dev); err != nil {
		log.Println("ERROR: ", err)
	}

	quad.AfterFrame = func(quad *scene.Scene) {
		if quad.Stats.Frames%statsInterval == 0 {
			window.SetTitle(fmt.Sprintf("%v\tEvents:\t%v\tRender:\t%v\tMode:\t%v",
				*windowTitle, quad.Stats.Events, quad.Stats.Render, quad.PolygonMode()))
		}
	}
	if err := quad.Run(window, window); err != nil {
		log.Fatalln(err)
	}
}
