package math

type Vec2 struct {
	X, Y float32
}

type Vec3 struct {
	X, Y, Z float32
}

type Vec4 struct {
	X, Y, Z, W float32
}

// Quaternion represents a rotation. The identity is {0, 0, 0, 1}.
type Quaternion Vec4

// Mat4 is a 4x4 matrix stored row by row for row vectors: a point p is
// transformed as p * M, and the translation sits in Data[12], Data[13] and
// Data[14]. The memory layout matches a GLSL column-major mat4 applied as
// M * p, so the data can be copied into uniform buffers unchanged.
type Mat4 struct {
	Data [16]float32
}

// Extents3D is an axis aligned bounding box.
type Extents3D struct {
	Min Vec3
	Max Vec3
}

// Vertex3D is the CPU side of one vertex. Streams are uploaded separately,
// see Geometry.
type Vertex3D struct {
	Position Vec3
	Normal   Vec3
	Texcoord Vec2
	Colour   Vec4
	Tangent  Vec4
}

// Transform is a position, rotation and scale with an optional parent. Use
// the setters so the cached local matrix is rebuilt when needed.
type Transform struct {
	Position Vec3
	Rotation Quaternion
	Scale    Vec3
	IsDirty  bool
	Local    Mat4
	Parent   *Transform
}
