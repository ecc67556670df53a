package voxel

import "github.com/go-gl/mathgl/mgl32"

// SectionGrid is the read-only neighborhood the mesher runs against: a box of
// sections plus the facing layers of whatever lies beyond the box.
type SectionGrid struct {
	sections  []*SectionVoxelData
	sectionsX int
	sectionsY int
	sectionsZ int
	maxX      int
	maxY      int
	maxZ      int
	planes    [6]*BoundaryPlane
	blocks    BlockClassifier
}

func NewSectionGrid(sectionsX, sectionsY, sectionsZ int, blocks BlockClassifier) *SectionGrid {
	return &SectionGrid{
		sections:  make([]*SectionVoxelData, sectionsX*sectionsY*sectionsZ),
		sectionsX: sectionsX,
		sectionsY: sectionsY,
		sectionsZ: sectionsZ,
		maxX:      sectionsX * SECTION_SIZE,
		maxY:      sectionsY * SECTION_SIZE,
		maxZ:      sectionsZ * SECTION_SIZE,
		blocks:    blocks,
	}
}

func SectionIndex(sx, sy, sz, sectionsY, sectionsZ int) int {
	return (sx*sectionsY+sy)*sectionsZ + sz
}

func (g *SectionGrid) Dimensions() (int, int, int) {
	return g.sectionsX, g.sectionsY, g.sectionsZ
}

func (g *SectionGrid) SectionCount() int {
	return len(g.sections)
}

// SectionCoords is the inverse of SectionIndex for this grid.
func (g *SectionGrid) SectionCoords(i int) (sx, sy, sz int) {
	sz = i % g.sectionsZ
	sy = (i / g.sectionsZ) % g.sectionsY
	sx = i / (g.sectionsZ * g.sectionsY)
	return sx, sy, sz
}

func (g *SectionGrid) Contains(sx, sy, sz int) bool {
	return sx >= 0 && sx < g.sectionsX && sy >= 0 && sy < g.sectionsY && sz >= 0 && sz < g.sectionsZ
}

func (g *SectionGrid) ContainsBlock(wx, wy, wz int) bool {
	return wx >= 0 && wx < g.maxX && wy >= 0 && wy < g.maxY && wz >= 0 && wz < g.maxZ
}

func (g *SectionGrid) Section(sx, sy, sz int) *SectionVoxelData {
	if !g.Contains(sx, sy, sz) {
		return nil
	}
	return g.sections[SectionIndex(sx, sy, sz, g.sectionsY, g.sectionsZ)]
}

func (g *SectionGrid) SetSection(sx, sy, sz int, s *SectionVoxelData) {
	g.sections[SectionIndex(sx, sy, sz, g.sectionsY, g.sectionsZ)] = s
}

func (g *SectionGrid) Blocks() BlockClassifier {
	return g.blocks
}

func (g *SectionGrid) IsOpaque(id uint16) bool {
	return id != AIR && g.blocks.IsOpaque(id)
}

// GetBlock samples the block at a grid relative world coordinate. Anything
// outside the grid is air.
func (g *SectionGrid) GetBlock(wx, wy, wz int) uint16 {
	if !g.ContainsBlock(wx, wy, wz) {
		return AIR
	}
	s := g.sections[SectionIndex(wx>>4, wy>>4, wz>>4, g.sectionsY, g.sectionsZ)]
	return s.BlockAt(wx&15, wy&15, wz&15)
}

// NeighborFullySolid reports whether every voxel of s is opaque.
func (g *SectionGrid) NeighborFullySolid(s *SectionVoxelData) bool {
	if s == nil {
		return false
	}
	if s.Kind == KindUniform && g.IsOpaque(s.UniformID) {
		return true
	}
	return s.OpaqueCount >= SECTION_VOLUME
}

// ResolveLocalBounds returns the tight box of non air voxels of s.
func (g *SectionGrid) ResolveLocalBounds(s *SectionVoxelData) LocalBounds {
	if s.HasBounds {
		return s.Bounds
	}
	var occupied Bitset
	for _, b := range []*Bitset{s.OpaqueBits, s.TransparentBits, s.DominantTransparentBits} {
		if b != nil {
			occupied.Or(b)
		}
	}
	if occupied.IsEmpty() {
		return FullBounds
	}
	bounds := LocalBounds{MinX: SECTION_SIZE, MinY: SECTION_SIZE, MinZ: SECTION_SIZE, MaxX: -1, MaxY: -1, MaxZ: -1}
	occupied.ForEach(func(li int) {
		lx, ly, lz := LocalCoords(li)
		bounds.MinX, bounds.MaxX = min(bounds.MinX, lx), max(bounds.MaxX, lx)
		bounds.MinY, bounds.MaxY = min(bounds.MinY, ly), max(bounds.MaxY, ly)
		bounds.MinZ, bounds.MaxZ = min(bounds.MinZ, lz), max(bounds.MaxZ, lz)
	})
	return bounds
}

func (g *SectionGrid) sectionBase(sx, sy, sz int) (int, int, int) {
	return sx * SECTION_SIZE, sy * SECTION_SIZE, sz * SECTION_SIZE
}

func (g *SectionGrid) SectionAABBMin(sx, sy, sz int) mgl32.Vec3 {
	return Int3{int32(sx), int32(sy), int32(sz)}.Mul(int32(SECTION_SIZE)).ToVec3()
}

func (g *SectionGrid) SectionAABBMax(sx, sy, sz int) mgl32.Vec3 {
	return Int3{int32(sx + 1), int32(sy + 1), int32(sz + 1)}.Mul(int32(SECTION_SIZE)).ToVec3()
}

// PrepareDominantFaces computes the boundary corrected dominant translucent
// face masks of every section. It has to run after all sections and planes are
// in place and before meshing starts.
func (g *SectionGrid) PrepareDominantFaces() {
	for i, s := range g.sections {
		if s == nil || !s.hasDominantTransparent() {
			continue
		}
		sx, sy, sz := g.SectionCoords(i)
		faces := new(FaceMasks)
		g.deriveTransparentFaces(sx, sy, sz, s, s.DominantTransparentBits, s.DominantTransparentID, g.ResolveLocalBounds(s), faces)
		s.DominantTransparentFaces = faces
	}
}
