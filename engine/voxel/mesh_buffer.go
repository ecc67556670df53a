package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/voxelmesh/engine/util"
)

// RenderInstance is one visible unit face, positioned in grid relative world
// coordinates.
type RenderInstance struct {
	X, Y, Z int32
	Tile    uint32
	Face    FaceType
}

func (r RenderInstance) Position() Int3 {
	return Int3{r.X, r.Y, r.Z}
}

func (r RenderInstance) String() string {
	return fmt.Sprintf("(%d,%d,%d %s tile=%d)", r.X, r.Y, r.Z, r.Face, r.Tile)
}

// InstanceBuffer is an append only stream of render instances for one pass
// (opaque or transparent).
type InstanceBuffer struct {
	instances []RenderInstance
}

func NewInstanceBuffer(capacity int) *InstanceBuffer {
	return &InstanceBuffer{instances: make([]RenderInstance, 0, capacity)}
}

// Grow makes room for n more instances without reallocating during emission.
func (m *InstanceBuffer) Grow(n int) {
	if cap(m.instances)-len(m.instances) >= n {
		return
	}
	grown := make([]RenderInstance, len(m.instances), len(m.instances)+n)
	copy(grown, m.instances)
	m.instances = grown
}

func (m *InstanceBuffer) Append(x, y, z int32, tile uint32, face FaceType) {
	m.instances = append(m.instances, RenderInstance{X: x, Y: y, Z: z, Tile: tile, Face: face})
}

func (m *InstanceBuffer) Len() int {
	return len(m.instances)
}

func (m *InstanceBuffer) At(i int) RenderInstance {
	return m.instances[i]
}

func (m *InstanceBuffer) Instances() []RenderInstance {
	return m.instances
}

func (m *InstanceBuffer) Reset() {
	m.instances = m.instances[:0]
}

func (m *InstanceBuffer) Merge(other *InstanceBuffer) {
	if other == nil {
		return
	}
	m.instances = append(m.instances, other.instances...)
}

func (m *InstanceBuffer) WorldPosition(i int) mgl32.Vec3 {
	return m.instances[i].Position().ToVec3()
}

// FaceCenter returns the center of the quad of instance i.
func (m *InstanceBuffer) FaceCenter(i int) mgl32.Vec3 {
	r := m.instances[i]
	return r.Position().ToBlockCenterVec3().Add(r.Face.Normal().ToVec3().Mul(0.5))
}

// MAX_PACKED_TILE is the largest tile index Pack keeps intact.
const MAX_PACKED_TILE = 1<<25 - 1

// Pack compresses instance i into one 64 bit word for upload:
// 12 bits per axis, 3 bits face, 25 bits tile. Values out of range keep
// their low bits only.
func (m *InstanceBuffer) Pack(i int) uint64 {
	r := m.instances[i]
	const axisMask = 1<<12 - 1
	if r.X < 0 || r.X > axisMask || r.Y < 0 || r.Y > axisMask || r.Z < 0 || r.Z > axisMask {
		util.LogMeshWarning(fmt.Sprintf("[Instances] position out of packing range: %v", r))
	}
	if r.Tile > MAX_PACKED_TILE {
		util.LogMeshWarning(fmt.Sprintf("[Instances] tile out of packing range: %v", r))
	}
	packed := uint64(r.X) & axisMask
	packed |= (uint64(r.Y) & axisMask) << 12
	packed |= (uint64(r.Z) & axisMask) << 24
	packed |= uint64(r.Face&7) << 36
	packed |= uint64(r.Tile&MAX_PACKED_TILE) << 39
	return packed
}

// UnpackInstance reverses Pack.
func UnpackInstance(packed uint64) RenderInstance {
	const axisMask = 1<<12 - 1
	return RenderInstance{
		X:    int32(packed & axisMask),
		Y:    int32((packed >> 12) & axisMask),
		Z:    int32((packed >> 24) & axisMask),
		Face: FaceType((packed >> 36) & 7),
		Tile: uint32(packed >> 39),
	}
}
