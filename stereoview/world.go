package main

import (
	"image/color"

	"git.terah.dev/imterah/gostereo/libframe"
	"git.terah.dev/imterah/gostereo/librayhost"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	groundColor = color.RGBA{R: 0x3A, G: 0x5F, B: 0x2E, A: 0xFF}
	pandaBody   = color.RGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF}
	pandaPatch  = color.RGBA{R: 0x18, G: 0x18, B: 0x18, A: 0xFF}
)

// Positions of the scenery blocks and their heights.
var scenery = []mgl32.Vec4{
	{-12, 0, -14, 4},
	{10, 0, -18, 6},
	{-18, 0, 4, 3},
	{16, 0, 6, 5},
	{-6, 0, 18, 2},
	{8, 0, 16, 3},
}

// cameraStart is where the viewer stands, behind and above the panda's walk.
var cameraStart = mgl32.Vec3{0, 3, 20}

// buildWorld attaches the environment and the panda to the scene, and returns the pacing
// sequence that walks the panda back and forth.
func buildWorld(host *librayhost.Host) (*libframe.Sequence, error) {
	graph := host.Graph()

	environment, err := graph.NewChild("environment", host.Render())

	if err != nil {
		return nil, err
	}

	host.AttachDrawable(environment, func() {
		rl.DrawPlane(rl.NewVector3(0, 0, 0), rl.NewVector2(60, 60), groundColor)
		rl.DrawGrid(60, 1)

		for _, block := range scenery {
			position := rl.NewVector3(block[0], block[1]+block[3]/2, block[2])
			rl.DrawCube(position, 2, block[3], 2, rl.Gray)
			rl.DrawCubeWires(position, 2, block[3], 2, rl.DarkGray)
		}
	})

	panda, err := graph.NewChild("panda", host.Render())

	if err != nil {
		return nil, err
	}

	graph.Get(panda).Scale = mgl32.Vec3{0.5, 0.5, 0.5}
	host.AttachDrawable(panda, drawPanda)

	forward := mgl32.Vec3{0, 0, -10}
	back := mgl32.Vec3{0, 0, 10}
	facing := mgl32.Vec3{0, 0, 0}
	turned := mgl32.Vec3{180, 0, 0}

	pace := libframe.NewSequence(true,
		libframe.PosInterval(panda, 13, forward, back, facing),
		libframe.HPRInterval(panda, 3, back, facing, turned),
		libframe.PosInterval(panda, 13, back, forward, turned),
		libframe.HPRInterval(panda, 3, forward, turned, facing),
	)

	return pace, nil
}

// drawPanda draws a blocky panda facing +Z, in node space.
func drawPanda() {
	rl.DrawCube(rl.NewVector3(0, 2, 0), 2.2, 1.8, 3.2, pandaBody)
	rl.DrawCube(rl.NewVector3(0, 2.6, 2), 1.6, 1.4, 1.4, pandaBody)
	rl.DrawSphere(rl.NewVector3(-0.6, 3.4, 2), 0.3, pandaPatch)
	rl.DrawSphere(rl.NewVector3(0.6, 3.4, 2), 0.3, pandaPatch)

	for _, leg := range [][2]float32{{-0.8, -1.2}, {0.8, -1.2}, {-0.8, 1.2}, {0.8, 1.2}} {
		rl.DrawCube(rl.NewVector3(leg[0], 0.5, leg[1]), 0.6, 1, 0.6, pandaPatch)
	}
}

// buildHUD puts a crosshair on the 2D overlay.
func buildHUD(host *librayhost.Host) error {
	crosshair, err := host.Graph().NewChild("crosshair", host.Aspect2D())

	if err != nil {
		return err
	}

	host.AttachDrawable(crosshair, func() {
		rl.DrawLine3D(rl.NewVector3(-0.04, 0, 0), rl.NewVector3(0.04, 0, 0), rl.RayWhite)
		rl.DrawLine3D(rl.NewVector3(0, -0.04, 0), rl.NewVector3(0, 0.04, 0), rl.RayWhite)
	})

	return nil
}
