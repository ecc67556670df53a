package voxel

import (
	"math/rand"
	"testing"
)

const (
	testStone uint16 = 1
	testDirt  uint16 = 2
	testGlass uint16 = 4
	testWater uint16 = 5
	testIce   uint16 = 6
)

func newTestRegistry(t testing.TB) *BlockRegistry {
	t.Helper()
	registry, err := NewBlockRegistry(
		BlockDef{ID: testStone, Name: "stone", Opaque: true},
		BlockDef{ID: testDirt, Name: "dirt", Opaque: true},
		BlockDef{ID: testGlass, Name: "glass"},
		BlockDef{ID: testWater, Name: "water"},
		BlockDef{ID: testIce, Name: "ice"},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return registry
}

// faceTiles gives every (id, face) pair its own tile so tests can tell faces apart.
type faceTiles struct{}

func (faceTiles) ResolveTile(id uint16, face FaceType) uint32 {
	return uint32(id)*8 + uint32(face)
}

type faceKey struct {
	X, Y, Z int32
	Face    FaceType
}

func faceKeys(buf *InstanceBuffer) map[faceKey]RenderInstance {
	keys := make(map[faceKey]RenderInstance, buf.Len())
	for _, r := range buf.Instances() {
		keys[faceKey{r.X, r.Y, r.Z, r.Face}] = r
	}
	return keys
}

func facesAt(buf *InstanceBuffer, x, y, z int32) map[FaceType]bool {
	result := map[FaceType]bool{}
	for _, r := range buf.Instances() {
		if r.X == x && r.Y == y && r.Z == z {
			result[r.Face] = true
		}
	}
	return result
}

func meshSection(t testing.TB, grid *SectionGrid, sx, sy, sz int) (*InstanceBuffer, *InstanceBuffer, MeshStats) {
	t.Helper()
	opaque, transparent := NewInstanceBuffer(0), NewInstanceBuffer(0)
	stats, ok := NewSectionMesher(grid, faceTiles{}).EmitSection(sx, sy, sz, opaque, transparent)
	if !ok {
		t.Fatalf("section (%d,%d,%d) was not meshed", sx, sy, sz)
	}
	if stats.OpaqueFaces != opaque.Len() || stats.TransparentFaces != transparent.Len() {
		t.Fatalf("stats %+v do not match buffers (%d, %d)", stats, opaque.Len(), transparent.Len())
	}
	return opaque, transparent, stats
}

var randomIDs = []uint16{AIR, AIR, AIR, testStone, testDirt, testGlass, testWater, testWater, testIce}

func randomVolume(rng *rand.Rand, sx, sy, sz int) *BlockVolume {
	volume := NewBlockVolume(sx, sy, sz)
	for x := 0; x < sx*SECTION_SIZE; x++ {
		for y := 0; y < sy*SECTION_SIZE; y++ {
			for z := 0; z < sz*SECTION_SIZE; z++ {
				volume.SetBlock(x, y, z, randomIDs[rng.Intn(len(randomIDs))])
			}
		}
	}
	return volume
}

func randomPlane(rng *rand.Rand, cells int) *BoundaryPlane {
	plane := NewBoundaryPlane(cells)
	for i := 0; i < cells; i++ {
		switch rng.Intn(4) {
		case 0:
			plane.SetCell(i, true, AIR)
		case 1:
			plane.SetCell(i, false, testWater)
		case 2:
			plane.SetCell(i, false, testGlass)
		}
	}
	return plane
}

// referenceFaces computes the visible faces of every voxel by direct
// neighbor lookups on the volume.
func referenceFaces(volume *BlockVolume, grid *SectionGrid, blocks BlockClassifier) (opaque, transparent map[faceKey]uint32) {
	opaque = map[faceKey]uint32{}
	transparent = map[faceKey]uint32{}
	maxX, maxY, maxZ := volume.sectionsX*SECTION_SIZE, volume.sectionsY*SECTION_SIZE, volume.sectionsZ*SECTION_SIZE
	tiles := faceTiles{}
	for x := 0; x < maxX; x++ {
		for y := 0; y < maxY; y++ {
			for z := 0; z < maxZ; z++ {
				id := volume.GetBlock(x, y, z)
				if id == AIR {
					continue
				}
				for _, face := range AllFaces {
					n := face.Normal()
					nx, ny, nz := x+int(n.X), y+int(n.Y), z+int(n.Z)
					var nOpaque bool
					var nID uint16
					if volume.Contains(nx, ny, nz) {
						nID = volume.GetBlock(nx, ny, nz)
						nOpaque = blocks.IsOpaque(nID)
					} else if plane := volume.planes[face]; plane != nil {
						pi := grid.PlaneIndex(face, x, y, z)
						nOpaque, nID = plane.OpaqueAt(pi), plane.TransparentAt(pi)
					}
					key := faceKey{int32(x), int32(y), int32(z), face}
					if blocks.IsOpaque(id) {
						if !nOpaque {
							opaque[key] = tiles.ResolveTile(id, face)
						}
						continue
					}
					if !nOpaque && nID != id {
						transparent[key] = tiles.ResolveTile(id, face)
					}
				}
			}
		}
	}
	return opaque, transparent
}
