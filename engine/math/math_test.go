package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol float32 = 1e-4

func TestMat4MulAppliesLeftFirst(t *testing.T) {
	s := NewMat4Scale(Vec3{2, 2, 2})
	tr := NewMat4Translation(Vec3{1, 0, 0})

	p := Vec3{1, 1, 1}.Transform(s.Mul(tr))
	assert.True(t, p.Compare(Vec3{3, 2, 2}, tol), "got %+v", p)

	p = Vec3{1, 1, 1}.Transform(tr.Mul(s))
	assert.True(t, p.Compare(Vec3{4, 2, 2}, tol), "got %+v", p)
}

func TestInverse(t *testing.T) {
	m := NewMat4Scale(Vec3{2, 3, 4}).
		Mul(NewQuatFromAxisAngle(Vec3{0, 1, 0}, 0.7, false).ToMat4()).
		Mul(NewMat4Translation(Vec3{5, -2, 1}))

	assert.True(t, m.Mul(m.Inverse()).Compare(NewMat4Identity(), tol))
	assert.True(t, m.Inverse().Mul(m).Compare(NewMat4Identity(), tol))

	var singular Mat4
	assert.Equal(t, NewMat4Identity(), singular.Inverse())
}

func TestTransposed(t *testing.T) {
	m := NewMat4Translation(Vec3{1, 2, 3})
	tr := m.Transposed()
	assert.Equal(t, float32(1), tr.Data[3])
	assert.Equal(t, float32(2), tr.Data[7])
	assert.Equal(t, float32(3), tr.Data[11])
	assert.Equal(t, m, tr.Transposed())
}

func TestNormalMatrixKeepsNormalsPerpendicular(t *testing.T) {
	model := NewMat4Scale(Vec3{1, 4, 1})
	n := model.NormalMatrix()

	// The surface y = x has normal (1, -1, 0) and tangent (1, 1, 0).
	tangent := Vec3{1, 1, 0}.TransformDirection(model)
	normal := Vec3{1, -1, 0}.TransformDirection(n)
	assert.InDelta(t, 0, tangent.Dot(normal), 1e-5)
	assert.Equal(t, float32(0), n.Data[12])
}

func TestQuaternionRotation(t *testing.T) {
	q := NewQuatFromAxisAngle(Vec3{0, 0, 1}, HalfPi, false)
	p := Vec3{1, 0, 0}.Transform(q.ToMat4())
	assert.True(t, p.Compare(Vec3{0, 1, 0}, tol), "got %+v", p)

	y := NewQuatFromAxisAngle(Vec3{0, 2, 0}, 0.3, true)
	assert.True(t, y.ToMat4().Compare(NewMat4EulerY(0.3), tol))

	assert.True(t, NewQuatIdentity().ToMat4().Compare(NewMat4Identity(), tol))
}

func TestQuaternionSlerpEndpoints(t *testing.T) {
	a := NewQuatIdentity()
	b := NewQuatFromAxisAngle(Vec3{0, 1, 0}, 1, false)

	assert.InDelta(t, 1, a.Slerp(b, 0).Dot(a), 1e-5)
	assert.InDelta(t, 1, a.Slerp(b, 1).Dot(b), 1e-5)

	mid := a.Slerp(b, 0.5)
	assert.True(t, mid.ToMat4().Compare(NewMat4EulerY(0.5), tol))
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	view := NewMat4LookAt(eye, Vec3{}, NewVec3Up())

	// The target ends up straight ahead on -Z.
	p := Vec3{}.Transform(view)
	assert.True(t, p.Compare(Vec3{0, 0, -5}, tol), "got %+v", p)

	// +X in the world stays on the camera's right.
	r := Vec3{1, 0, 0}.Transform(view)
	assert.Greater(t, r.X, float32(0))

	assert.True(t, view.Forward().Compare(Vec3{0, 0, -1}, tol))
	assert.True(t, view.Right().Compare(Vec3{1, 0, 0}, tol))
	assert.True(t, view.Up().Compare(Vec3{0, 1, 0}, tol))
}

func project(m Mat4, p Vec3) Vec3 {
	d := &m.Data
	x := p.X*d[0] + p.Y*d[4] + p.Z*d[8] + d[12]
	y := p.X*d[1] + p.Y*d[5] + p.Z*d[9] + d[13]
	z := p.X*d[2] + p.Y*d[6] + p.Z*d[10] + d[14]
	w := p.X*d[3] + p.Y*d[7] + p.Z*d[11] + d[15]
	return Vec3{x / w, y / w, z / w}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := NewMat4Perspective(DegToRad(60), 16.0/9.0, 0.1, 100)

	near := project(proj, Vec3{0, 0, -0.1})
	far := project(proj, Vec3{0, 0, -100})
	assert.InDelta(t, 0, near.Z, 1e-4)
	assert.InDelta(t, 1, far.Z, 1e-4)

	// Up in view space is down in Vulkan clip space.
	up := project(proj, Vec3{0, 1, -2})
	assert.Less(t, up.Y, float32(0))
}

func TestTransformHierarchy(t *testing.T) {
	parent := NewTransform()
	parent.SetPosition(Vec3{10, 0, 0})

	child := NewTransformFrom(Vec3{0, 1, 0}, NewQuatIdentity(), Vec3{2, 2, 2})
	child.Parent = parent

	p := Vec3{1, 0, 0}.Transform(child.GetWorld())
	assert.True(t, p.Compare(Vec3{12, 1, 0}, tol), "got %+v", p)
	assert.False(t, child.IsDirty)

	child.Translate(Vec3{0, 0, 1})
	assert.True(t, child.IsDirty)
	p = Vec3{}.Transform(child.GetWorld())
	assert.True(t, p.Compare(Vec3{10, 1, 1}, tol), "got %+v", p)

	var none *Transform
	assert.Equal(t, NewMat4Identity(), none.GetWorld())
}

func TestNormalizedZeroVector(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalized())
	assert.InDelta(t, 1, Vec3{3, 4, 0}.Normalized().Length(), 1e-6)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, float32(0), Clamp(float32(-1), 0, 1))
	assert.Equal(t, uint32(3), Clamp(uint32(3), 1, 4))
	assert.InDelta(t, Pi, DegToRad(180), 1e-6)
}

func TestGenerateCube(t *testing.T) {
	g := GenerateCube("cube", 2, 2, 2, 1, 1)
	require.Len(t, g.Vertices, 24)
	require.Len(t, g.Indices, 36)
	assert.Equal(t, Vec3{-1, -1, -1}, g.Extents.Min)
	assert.Equal(t, Vec3{1, 1, 1}, g.Extents.Max)

	// Winding agrees with the declared face normals.
	declared := make([]Vec3, len(g.Vertices))
	for i, v := range g.Vertices {
		declared[i] = v.Normal
	}
	GenerateNormals(g.Vertices, g.Indices)
	for i, v := range g.Vertices {
		assert.True(t, v.Normal.Compare(declared[i], tol), "vertex %d: %+v vs %+v", i, v.Normal, declared[i])
		assert.InDelta(t, 1, v.Tangent.ToVec3().Length(), 1e-5)
		assert.InDelta(t, 0, v.Tangent.ToVec3().Dot(v.Normal), 1e-5)
	}
}

func TestGeneratePlane(t *testing.T) {
	g := GeneratePlane("ground", 10, 4, 2, 3, 2, 2)
	require.Len(t, g.Vertices, 2*3*4)
	require.Len(t, g.Indices, 2*3*6)

	for _, idx := range g.Indices {
		assert.Less(t, int(idx), len(g.Vertices))
	}
	GenerateNormals(g.Vertices, g.Indices)
	for _, v := range g.Vertices {
		assert.True(t, v.Normal.Compare(NewVec3Up(), tol))
		assert.LessOrEqual(t, abs(v.Position.X), float32(5))
		assert.LessOrEqual(t, abs(v.Position.Z), float32(2))
	}

	zero := GeneratePlane("", 0, 0, 0, 0, 0, 0)
	assert.Len(t, zero.Vertices, 4)
	assert.Equal(t, Vec3{0.5, 0, 0.5}, zero.Extents.Max)
}

func TestStreams(t *testing.T) {
	g := GenerateCube("cube", 1, 1, 1, 1, 1)
	pos, nrm, tan, uv := g.Streams()
	require.Len(t, pos, 24)
	assert.Len(t, nrm, 24)
	assert.Len(t, tan, 24)
	assert.Len(t, uv, 24)
	assert.Equal(t, float32(1), pos[0].W)
	assert.Equal(t, float32(0), nrm[0].W)
}
