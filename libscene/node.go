package libscene

import "github.com/go-gl/mathgl/mgl32"

// Node is a scene graph record. Y is up, -Z is forward, X is the interocular axis.
type Node struct {
	Name string

	Pos   mgl32.Vec3
	HPR   mgl32.Vec3 // heading, pitch, roll in degrees
	Scale mgl32.Vec3

	// A node with a lens is a camera.
	Lens Lens
	// A node with a card is drawn as a textured quad.
	Card *Card

	// Host texture and shader handles; zero means none.
	Texture uint32
	Shader  uint32

	ShaderInputs map[string]ShaderInput

	DepthTest  bool
	DepthWrite bool
	Hidden     bool

	parent   NodeID
	children []NodeID
}

func newNode(name string) Node {
	return Node{
		Name:       name,
		Scale:      mgl32.Vec3{1, 1, 1},
		DepthTest:  true,
		DepthWrite: true,
	}
}

// LocalMatrix returns translate · heading · pitch · roll · scale.
func (node *Node) LocalMatrix() mgl32.Mat4 {
	h := mgl32.HomogRotate3DY(mgl32.DegToRad(node.HPR[0]))
	p := mgl32.HomogRotate3DX(mgl32.DegToRad(node.HPR[1]))
	r := mgl32.HomogRotate3DZ(mgl32.DegToRad(node.HPR[2]))

	t := mgl32.Translate3D(node.Pos[0], node.Pos[1], node.Pos[2])
	s := mgl32.Scale3D(node.Scale[0], node.Scale[1], node.Scale[2])

	return t.Mul4(h).Mul4(p).Mul4(r).Mul4(s)
}

// SetShaderInput binds a named shader parameter on the node.
func (node *Node) SetShaderInput(name string, input ShaderInput) {
	if node.ShaderInputs == nil {
		node.ShaderInputs = map[string]ShaderInput{}
	}

	node.ShaderInputs[name] = input
}

// ClearShader removes the shader and all of its parameters.
func (node *Node) ClearShader() {
	node.Shader = 0
	node.ShaderInputs = nil
}

// Card is a textured quad in the parent's space.
type Card struct {
	// Left, right, bottom, top.
	Frame mgl32.Vec4
	UVMin mgl32.Vec2
	UVMax mgl32.Vec2
	Color mgl32.Vec4
}

// InputKind is the type of a shader parameter.
type InputKind int

const (
	InputVec2 InputKind = iota
	InputVec4
)

// ShaderInput is a vector shader parameter.
type ShaderInput struct {
	Kind  InputKind
	Value mgl32.Vec4
}

func Vec2Input(v mgl32.Vec2) ShaderInput {
	return ShaderInput{Kind: InputVec2, Value: mgl32.Vec4{v[0], v[1], 0, 0}}
}

func Vec4Input(v mgl32.Vec4) ShaderInput {
	return ShaderInput{Kind: InputVec4, Value: v}
}

// Vec2 returns the first two components.
func (input ShaderInput) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{input.Value[0], input.Value[1]}
}

// Floats returns the components the parameter actually carries.
func (input ShaderInput) Floats() []float32 {
	if input.Kind == InputVec2 {
		return input.Value[:2]
	}

	return input.Value[:]
}
