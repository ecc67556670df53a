package voxel

import "github.com/go-gl/mathgl/mgl32"

type FaceType uint8

// The numeric order is the emission order and the value written into render instances.
const (
	XN FaceType = iota
	XP
	YN
	YP
	ZN
	ZP
)

// Compass aliases used by the atlas suffix rules.
const (
	West   = XN
	East   = XP
	Bottom = YN
	Top    = YP
	North  = ZN
	South  = ZP
)

var AllFaces = [6]FaceType{XN, XP, YN, YP, ZN, ZP}

func (f FaceType) String() string {
	switch f {
	case XN:
		return "-X"
	case XP:
		return "+X"
	case YN:
		return "-Y"
	case YP:
		return "+Y"
	case ZN:
		return "-Z"
	case ZP:
		return "+Z"
	}
	return "?"
}

// Normal is the unit step from a voxel towards the neighbor it faces.
func (f FaceType) Normal() Int3 {
	switch f {
	case XN:
		return Int3{X: -1}
	case XP:
		return Int3{X: 1}
	case YN:
		return Int3{Y: -1}
	case YP:
		return Int3{Y: 1}
	case ZN:
		return Int3{Z: -1}
	case ZP:
		return Int3{Z: 1}
	}
	return Int3{}
}

// IsNegative reports whether the face points towards decreasing coordinates.
func (f FaceType) IsNegative() bool {
	return f%2 == 0
}

func (f FaceType) stride() int {
	switch f {
	case XN, XP:
		return STRIDE_X
	case YN, YP:
		return STRIDE_Y
	}
	return STRIDE_Z
}

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(tr Int3) Int3 {
	return Int3{i.X - tr.X, i.Y - tr.Y, i.Z - tr.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	i.X *= factor
	i.Y *= factor
	i.Z *= factor
	return i
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

func (i Int3) ToBlockCenterVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X) + 0.5, float32(i.Y) + 0.5, float32(i.Z) + 0.5}
}
