package scene

import (
	"fmt"

	"github.com/achilleasa/autolod/types"
	"github.com/chewxy/math32"
)

// The camera type controls the viewpoint used for LOD selection.
type Camera struct {
	Name string

	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Pitch    float32
	Yaw      float32

	// Vertical field of view in degrees.
	FOV float32

	// Orthographic cameras use OrthographicSize (half the viewport height in
	// world units) instead of the FOV.
	Orthographic     bool
	OrthographicSize float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		Name:     "camera",
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
	}
}

// Forward returns the normalized view direction.
func (c *Camera) Forward() types.Vec3 {
	return c.LookAt.Sub(c.Position).Normalize()
}

// Update applies the pending pitch and yaw angles to the view direction.
func (c *Camera) Update() {
	dir := c.Forward()
	pitchAxis := dir.Cross(c.Up)
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
	yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()

	dir = orientQuat.Rotate(dir)
	c.LookAt = c.Position.Add(dir)
	c.Pitch, c.Yaw = 0, 0
}

// Move the camera and its look-at point by a world space offset.
func (c *Camera) Move(offset types.Vec3) {
	c.Position = c.Position.Add(offset)
	c.LookAt = c.LookAt.Add(offset)
}

// RelativeHeight returns the fraction of the viewport height covered by an
// object of the given world space size at the given distance.
func (c *Camera) RelativeHeight(distance, size float32) float32 {
	if c.Orthographic {
		if c.OrthographicSize <= 0 {
			return 0
		}
		return size * 0.5 / c.OrthographicSize
	}

	halfAngle := math32.Tan(c.FOV * 0.5 * math32.Pi / 180)
	denom := distance * halfAngle
	if denom <= 0 {
		return math32.Inf(1)
	}
	return size * 0.5 / denom
}

// DistanceForRelativeHeight is the inverse of RelativeHeight for perspective
// cameras.
func (c *Camera) DistanceForRelativeHeight(height, size float32) float32 {
	halfAngle := math32.Tan(c.FOV * 0.5 * math32.Pi / 180)
	return size * 0.5 / (height * halfAngle)
}

// CameraState captures the camera properties that affect LOD selection.
type CameraState struct {
	Position         types.Vec3
	Forward          types.Vec3
	FOV              float32
	Orthographic     bool
	OrthographicSize float32
}

// State returns a snapshot of the camera properties that affect selection.
func (c *Camera) State() CameraState {
	return CameraState{
		Position:         c.Position,
		Forward:          c.Forward(),
		FOV:              c.FOV,
		Orthographic:     c.Orthographic,
		OrthographicSize: c.OrthographicSize,
	}
}

func (c *Camera) String() string {
	return fmt.Sprintf("%s pos: (%3.3f, %3.3f, %3.3f) fov: %3.1f", c.Name, c.Position[0], c.Position[1], c.Position[2], c.FOV)
}
