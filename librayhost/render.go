package librayhost

import (
	"git.terah.dev/imterah/gostereo/libscene"
	"git.terah.dev/imterah/gostereo/libstereo"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame renders every target in sort order and presents the window.
func (host *Host) Frame() {
	width, height := rl.GetRenderWidth(), rl.GetRenderHeight()

	if height > 0 {
		host.updateAspect(float32(width) / float32(height))
	}

	for _, id := range host.sortedTargets() {
		t := host.targets[id]

		if t.window {
			rl.BeginDrawing()
			rl.ClearBackground(host.Background)
			host.renderRegions(t, width, height)
			rl.EndDrawing()

			continue
		}

		rl.BeginTextureMode(t.texture)
		rl.ClearBackground(host.Background)
		host.renderRegions(t, int(t.texture.Texture.Width), int(t.texture.Texture.Height))
		rl.EndTextureMode()
	}
}

func (host *Host) renderRegions(t *target, width, height int) {
	for _, id := range t.regions {
		r := host.regions[id]

		if !r.active {
			continue
		}

		camera := host.graph.Get(r.camera)

		if camera == nil || camera.Lens == nil {
			continue
		}

		x, y, w, h := pixelRect(r.rect, width, height)

		rl.DrawRenderBatchActive()
		rl.Viewport(x, y, w, h)

		_, orthographic := camera.Lens.(*libscene.OrthographicLens)
		view := host.graph.ViewMatrix(r.camera)

		host.renderScene(sceneRoot(host.graph, r.camera), camera.Lens.ProjectionMatrix(), view, !orthographic)
	}

	rl.DrawRenderBatchActive()
	rl.Viewport(0, 0, int32(width), int32(height))
}

func (host *Host) renderScene(root libscene.NodeID, projection, view mgl32.Mat4, depth bool) {
	rl.SetMatrixProjection(toMatrix(projection))

	host.graph.Walk(root, func(id libscene.NodeID, node *libscene.Node) bool {
		if node.Hidden {
			return false
		}

		draw, drawable := host.drawables[id]

		if !drawable && node.Card == nil {
			return true
		}

		rl.SetMatrixModelview(toMatrix(view.Mul4(host.graph.WorldMatrix(id))))
		setDepth(depth && node.DepthTest, depth && node.DepthWrite)

		if drawable {
			draw()
			rl.DrawRenderBatchActive()
		}

		if node.Card != nil {
			host.drawCard(node)
		}

		return true
	})

	setDepth(true, true)
}

func (host *Host) drawCard(node *libscene.Node) {
	card := node.Card
	program, shaded := host.shaders[libstereo.ShaderID(node.Shader)]

	if shaded {
		rl.BeginShaderMode(program.program)
		host.bindInputs(program, node.ShaderInputs)
	}

	rl.DisableBackfaceCulling()
	rl.SetTexture(node.Texture)

	left, right, bottom, top := card.Frame[0], card.Frame[1], card.Frame[2], card.Frame[3]

	rl.Begin(rl.Quads)
	rl.Color4f(card.Color[0], card.Color[1], card.Color[2], card.Color[3])
	rl.TexCoord2f(card.UVMin.X(), card.UVMin.Y())
	rl.Vertex3f(left, bottom, 0)
	rl.TexCoord2f(card.UVMax.X(), card.UVMin.Y())
	rl.Vertex3f(right, bottom, 0)
	rl.TexCoord2f(card.UVMax.X(), card.UVMax.Y())
	rl.Vertex3f(right, top, 0)
	rl.TexCoord2f(card.UVMin.X(), card.UVMax.Y())
	rl.Vertex3f(left, top, 0)
	rl.End()

	rl.SetTexture(0)
	rl.DrawRenderBatchActive()
	rl.EnableBackfaceCulling()

	if shaded {
		rl.EndShaderMode()
	}
}

func (host *Host) bindInputs(program *shader, inputs map[string]libscene.ShaderInput) {
	for name, input := range inputs {
		loc := program.location(name)

		if loc < 0 {
			continue
		}

		uniformType := rl.ShaderUniformVec4

		if input.Kind == libscene.InputVec2 {
			uniformType = rl.ShaderUniformVec2
		}

		rl.SetShaderValue(program.program, loc, input.Floats(), uniformType)
	}
}

func setDepth(test, write bool) {
	rl.DrawRenderBatchActive()

	if test {
		rl.EnableDepthTest()
	} else {
		rl.DisableDepthTest()
	}

	if write {
		rl.EnableDepthMask()
	} else {
		rl.DisableDepthMask()
	}
}

// sceneRoot is the topmost ancestor of a camera; a region draws that whole tree.
func sceneRoot(graph *libscene.Graph, camera libscene.NodeID) libscene.NodeID {
	root := camera

	for parent := graph.Parent(root); !parent.IsZero(); parent = graph.Parent(root) {
		root = parent
	}

	return root
}

// pixelRect converts a normalized region to a viewport with a bottom left origin.
func pixelRect(rect libstereo.Region, width, height int) (x, y, w, h int32) {
	x0 := int32(rect.Left * float32(width))
	x1 := int32(rect.Right * float32(width))
	y0 := int32(rect.Bottom * float32(height))
	y1 := int32(rect.Top * float32(height))

	return x0, y0, x1 - x0, y1 - y0
}

// toMatrix converts column-major mgl32 storage to raylib's named elements, which use the
// same indices.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
