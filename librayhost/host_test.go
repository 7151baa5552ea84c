package librayhost

import (
	"testing"
	"testing/fstest"

	"git.terah.dev/imterah/gostereo/libheadcam"
	"git.terah.dev/imterah/gostereo/libscene"
	"git.terah.dev/imterah/gostereo/libstereo"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ libstereo.Host           = (*Host)(nil)
	_ libheadcam.PointerSource = (*Host)(nil)
)

func TestDefaultRegions(t *testing.T) {
	host := newHost(fstest.MapFS{})

	scene, overlay := host.DefaultRegions()
	assert.NotEqual(t, scene, overlay)
	assert.True(t, host.RegionActive(scene))
	assert.True(t, host.RegionActive(overlay))

	assert.Equal(t, host.Camera(), host.regions[scene].camera)
	assert.Equal(t, host.Render(), sceneRoot(host.graph, host.Camera()))
	assert.Equal(t, host.CameraGroup(), host.graph.Parent(host.Camera()))
	assert.Equal(t, host.Render2D(), sceneRoot(host.graph, host.regions[overlay].camera))
	assert.NotZero(t, host.Window())
}

func TestRegionBookkeeping(t *testing.T) {
	host := newHost(fstest.MapFS{})

	id, err := host.MakeDisplayRegion(host.Window(), libstereo.Region{Right: 1, Top: 1})
	require.NoError(t, err)
	assert.True(t, host.RegionActive(id))

	host.SetRegionActive(id, false)
	assert.False(t, host.RegionActive(id))

	host.RemoveDisplayRegion(id)
	assert.False(t, host.RegionActive(id))
	assert.Len(t, host.targets[host.Window()].regions, 2)

	// Removing twice is harmless.
	host.RemoveDisplayRegion(id)

	_, err = host.MakeDisplayRegion(libstereo.TargetID(999), libstereo.Region{})
	assert.Error(t, err)
}

func TestTargetsRenderInSortOrder(t *testing.T) {
	host := newHost(fstest.MapFS{})

	host.targets[100] = &target{name: "late", sort: 10}
	host.targets[101] = &target{name: "scene buffer", sort: -100}
	host.targets[102] = &target{name: "overlay", sort: 0}

	var names []string

	for _, id := range host.sortedTargets() {
		names = append(names, host.targets[id].name)
	}

	assert.Equal(t, []string{"scene buffer", "overlay", "window", "late"}, names)
}

func TestAspectScale(t *testing.T) {
	host := newHost(fstest.MapFS{})

	host.updateAspect(1.6)
	assert.InDelta(t, 0.625, host.AspectScale().X(), 1e-6)
	assert.Equal(t, float32(1), host.AspectScale().Y())

	host.updateAspect(0)
	assert.InDelta(t, 0.625, host.AspectScale().X(), 1e-6)
}

func TestLoadShaderMissingSource(t *testing.T) {
	host := newHost(fstest.MapFS{
		libstereo.VertexShaderName: {Data: []byte("#version 330\n")},
	})

	_, err := host.LoadShader(libstereo.VertexShaderName, libstereo.ChromaticFragmentShaderName)
	assert.Error(t, err)
	assert.Empty(t, host.shaders)
}

func TestPixelRect(t *testing.T) {
	x, y, w, h := pixelRect(libstereo.Region{Left: 0.5, Right: 1, Bottom: 0, Top: 1}, 2048, 1024)

	assert.Equal(t, int32(1024), x)
	assert.Equal(t, int32(0), y)
	assert.Equal(t, int32(1024), w)
	assert.Equal(t, int32(1024), h)
}

func TestNormalizePointer(t *testing.T) {
	x, y := normalizePointer(0, 0, 1280, 800)
	assert.Equal(t, float32(-1), x)
	assert.Equal(t, float32(1), y)

	x, y = normalizePointer(960, 600, 1280, 800)
	assert.InDelta(t, 0.5, x, 1e-6)
	assert.InDelta(t, -0.5, y, 1e-6)

	x, y = normalizePointer(5000, -10, 1280, 800)
	assert.Equal(t, float32(1), x)
	assert.Equal(t, float32(1), y)
}

func TestToMatrix(t *testing.T) {
	m := toMatrix(mgl32.Translate3D(1, 2, 3))

	assert.Equal(t, float32(1), m.M12)
	assert.Equal(t, float32(2), m.M13)
	assert.Equal(t, float32(3), m.M14)
	assert.Equal(t, float32(1), m.M15)
	assert.Equal(t, float32(0), m.M3)
}

func TestDrawablesFollowNodes(t *testing.T) {
	host := newHost(fstest.MapFS{})
	node, err := host.graph.NewChild("cube", host.Render())
	require.NoError(t, err)

	host.AttachDrawable(node, func() {})
	assert.Contains(t, host.drawables, node)

	host.DetachDrawable(node)
	assert.NotContains(t, host.drawables, node)
	assert.Equal(t, libscene.NodeID{}, host.graph.Parent(host.Render()))
}
