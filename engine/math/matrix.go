package math

func NewMat4Identity() Mat4 {
	var m Mat4
	m.Data[0] = 1
	m.Data[5] = 1
	m.Data[10] = 1
	m.Data[15] = 1
	return m
}

// Mul returns m * other. With row vectors, p * (m * other) applies m first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	a, b := &m.Data, &other.Data
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.Data[r*4+c] = a[r*4+0]*b[0*4+c] +
				a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] +
				a[r*4+3]*b[3*4+c]
		}
	}
	return out
}

func NewMat4Orthographic(left, right, bottom, top, nearClip, farClip float32) Mat4 {
	m := NewMat4Identity()
	lr := 1 / (left - right)
	bt := 1 / (bottom - top)
	nf := 1 / (nearClip - farClip)

	m.Data[0] = -2 * lr
	m.Data[5] = -2 * bt
	m.Data[10] = nf
	m.Data[12] = (left + right) * lr
	m.Data[13] = (top + bottom) * bt
	m.Data[14] = nearClip * nf
	return m
}

// NewMat4Perspective builds a right handed projection for Vulkan clip space:
// depth maps to [0, 1] and Y points down.
func NewMat4Perspective(fovRadians, aspectRatio, nearClip, farClip float32) Mat4 {
	var m Mat4
	f := 1 / tan(fovRadians*0.5)
	m.Data[0] = f / aspectRatio
	m.Data[5] = -f
	m.Data[10] = farClip / (nearClip - farClip)
	m.Data[11] = -1
	m.Data[14] = nearClip * farClip / (nearClip - farClip)
	return m
}

// NewMat4LookAt builds a view matrix for a camera at position looking at
// target. The camera looks down its local -Z.
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	f := target.Sub(position).Normalized()
	s := f.Cross(up).Normalized()
	u := s.Cross(f)

	var m Mat4
	m.Data[0], m.Data[4], m.Data[8] = s.X, s.Y, s.Z
	m.Data[1], m.Data[5], m.Data[9] = u.X, u.Y, u.Z
	m.Data[2], m.Data[6], m.Data[10] = -f.X, -f.Y, -f.Z
	m.Data[12] = -s.Dot(position)
	m.Data[13] = -u.Dot(position)
	m.Data[14] = f.Dot(position)
	m.Data[15] = 1
	return m
}

func (m Mat4) Transposed() Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.Data[c*4+r] = m.Data[r*4+c]
		}
	}
	return out
}

// Inverse returns the inverse of m. A singular matrix yields the identity.
func (m Mat4) Inverse() Mat4 {
	a := &m.Data
	var out Mat4
	o := &out.Data

	o[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	o[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	o[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	o[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	o[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	o[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	o[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	o[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	o[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	o[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	o[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	o[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	o[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	o[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	o[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	o[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*o[0] + a[1]*o[4] + a[2]*o[8] + a[3]*o[12]
	if det == 0 {
		return NewMat4Identity()
	}
	inv := 1 / det
	for i := range o {
		o[i] *= inv
	}
	return out
}

// NormalMatrix returns the inverse transpose of m with the translation
// cleared, for transforming normals.
func (m Mat4) NormalMatrix() Mat4 {
	n := m.Inverse().Transposed()
	n.Data[3], n.Data[7], n.Data[11] = 0, 0, 0
	n.Data[12], n.Data[13], n.Data[14] = 0, 0, 0
	n.Data[15] = 1
	return n
}

func NewMat4Translation(position Vec3) Mat4 {
	m := NewMat4Identity()
	m.Data[12] = position.X
	m.Data[13] = position.Y
	m.Data[14] = position.Z
	return m
}

func NewMat4Scale(scale Vec3) Mat4 {
	m := NewMat4Identity()
	m.Data[0] = scale.X
	m.Data[5] = scale.Y
	m.Data[10] = scale.Z
	return m
}

func NewMat4EulerY(angleRadians float32) Mat4 {
	m := NewMat4Identity()
	c, s := cos(angleRadians), sin(angleRadians)
	m.Data[0] = c
	m.Data[2] = -s
	m.Data[8] = s
	m.Data[10] = c
	return m
}

// Forward is the -Z axis of m, normalized.
func (m Mat4) Forward() Vec3 {
	return Vec3{-m.Data[2], -m.Data[6], -m.Data[10]}.Normalized()
}

// Right is the +X axis of m, normalized.
func (m Mat4) Right() Vec3 {
	return Vec3{m.Data[0], m.Data[4], m.Data[8]}.Normalized()
}

func (m Mat4) Up() Vec3 {
	return Vec3{m.Data[1], m.Data[5], m.Data[9]}.Normalized()
}

// Compare reports whether every element is within tolerance.
func (m Mat4) Compare(other Mat4, tolerance float32) bool {
	for i := range m.Data {
		if !nearlyEqual(m.Data[i], other.Data[i], tolerance) {
			return false
		}
	}
	return true
}
