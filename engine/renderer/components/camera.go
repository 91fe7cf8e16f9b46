package components

import (
	"github.com/spaghettifunk/lumen/engine/math"
)

// Camera looks from Position at Target. The view matrix is rebuilt lazily
// after any setter runs.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
	// FOV is the vertical field of view in radians.
	FOV  float32
	Near float32
	Far  float32

	IsDirty    bool
	ViewMatrix math.Mat4
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

// Reset puts the camera at the origin looking down -Z with a 45 degree lens.
func (c *Camera) Reset() {
	c.Position = math.NewVec3Zero()
	c.Target = math.NewVec3Forward()
	c.Up = math.NewVec3Up()
	c.FOV = math.DegToRad(45)
	c.Near = 0.1
	c.Far = 1000
	c.ViewMatrix = math.NewMat4Identity()
	c.IsDirty = true
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
	c.IsDirty = true
}

// Orbit places the camera on a circle of radius around Target, angle radians
// from +X, at height above it.
func (c *Camera) Orbit(angle, radius, height float32) {
	offset := math.NewVec3(radius, height, 0).TransformDirection(math.NewMat4EulerY(-angle))
	c.SetPosition(c.Target.Add(offset))
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.NewMat4LookAt(c.Position, c.Target, c.Up)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

// Projection returns the Vulkan perspective matrix for a viewport of the
// given size. A zero height is treated as one.
func (c *Camera) Projection(width, height uint32) math.Mat4 {
	aspect := float32(width) / float32(max(height, 1))
	return math.NewMat4Perspective(c.FOV, aspect, c.Near, c.Far)
}

func (c *Camera) Forward() math.Vec3 {
	return c.GetView().Forward()
}

func (c *Camera) Right() math.Vec3 {
	return c.GetView().Right()
}
