package math

func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1}
}

// NewQuatFromAxisAngle returns a rotation of angle radians around axis.
// The axis is expected to be unit length; pass normalize to force it.
func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	if normalize {
		axis = axis.Normalized()
	}
	half := angle * 0.5
	s, c := sin(half), cos(half)
	return Quaternion{X: s * axis.X, Y: s * axis.Y, Z: s * axis.Z, W: c}
}

func (q Quaternion) Norm() float32 {
	return sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

func (q Quaternion) Normalized() Quaternion {
	n := q.Norm()
	if n == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

func (q Quaternion) Inverse() Quaternion {
	return q.Conjugate().Normalized()
}

// Mul returns the Hamilton product q * other.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quaternion) Dot(other Quaternion) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// ToMat4 returns the rotation matrix of the normalized q in row vector form.
func (q Quaternion) ToMat4() Mat4 {
	n := q.Normalized()
	x, y, z, w := n.X, n.Y, n.Z, n.W

	m := NewMat4Identity()
	m.Data[0] = 1 - 2*(y*y+z*z)
	m.Data[1] = 2 * (x*y + z*w)
	m.Data[2] = 2 * (x*z - y*w)

	m.Data[4] = 2 * (x*y - z*w)
	m.Data[5] = 1 - 2*(x*x+z*z)
	m.Data[6] = 2 * (y*z + x*w)

	m.Data[8] = 2 * (x*z + y*w)
	m.Data[9] = 2 * (y*z - x*w)
	m.Data[10] = 1 - 2*(x*x+y*y)
	return m
}

// Slerp interpolates between q and other along the shortest arc.
func (q Quaternion) Slerp(other Quaternion, percentage float32) Quaternion {
	v0 := q.Normalized()
	v1 := other.Normalized()

	dot := v0.Dot(v1)
	if dot < 0 {
		v1 = Quaternion{-v1.X, -v1.Y, -v1.Z, -v1.W}
		dot = -dot
	}

	const threshold float32 = 0.9995
	if dot > threshold {
		// Close enough to lerp.
		out := Quaternion{
			v0.X + (v1.X-v0.X)*percentage,
			v0.Y + (v1.Y-v0.Y)*percentage,
			v0.Z + (v1.Z-v0.Z)*percentage,
			v0.W + (v1.W-v0.W)*percentage,
		}
		return out.Normalized()
	}

	theta0 := acos(dot)
	theta := theta0 * percentage
	sinTheta := sin(theta)
	sinTheta0 := sin(theta0)

	s0 := cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0
	return Quaternion{
		v0.X*s0 + v1.X*s1,
		v0.Y*s0 + v1.Y*s1,
		v0.Z*s0 + v1.Z*s1,
		v0.W*s0 + v1.W*s1,
	}
}
