package voxel

import "math/bits"

// MeshStats counts the instances one emission call appended.
type MeshStats struct {
	OpaqueFaces      int
	TransparentFaces int
}

func (s *MeshStats) Add(o MeshStats) {
	s.OpaqueFaces += o.OpaqueFaces
	s.TransparentFaces += o.TransparentFaces
}

func (s MeshStats) Total() int {
	return s.OpaqueFaces + s.TransparentFaces
}

// SectionMesher turns the sections of a grid into render instances.
// A SectionMesher owns scratch buffers and must not be shared between
// goroutines; give every worker its own.
type SectionMesher struct {
	grid    *SectionGrid
	tiles   TileResolver
	scratch *meshScratch
}

func NewSectionMesher(grid *SectionGrid, tiles TileResolver) *SectionMesher {
	return &SectionMesher{
		grid:    grid,
		tiles:   tiles,
		scratch: newMeshScratch(),
	}
}

func (m *SectionMesher) Grid() *SectionGrid {
	return m.grid
}

// EmitSection meshes section (sx, sy, sz) with the handler of its storage kind.
// It returns false if the section cannot be handled.
func (m *SectionMesher) EmitSection(sx, sy, sz int, opaque, transparent *InstanceBuffer) (MeshStats, bool) {
	s := m.grid.Section(sx, sy, sz)
	if s == nil {
		return MeshStats{}, m.grid.Contains(sx, sy, sz)
	}
	switch s.Kind {
	case KindEmpty:
		return MeshStats{}, true
	case KindUniform:
		return m.EmitUniformSection(sx, sy, sz, opaque, transparent)
	case KindPackedSingle:
		return m.EmitPackedSingleSection(sx, sy, sz, opaque, transparent)
	case KindMultiPacked:
		return m.EmitMultiPackedSection(sx, sy, sz, opaque, transparent)
	}
	return MeshStats{}, false
}

// emitOpaqueFaces scans the six face masks and appends one instance per set bit.
// Decoded ids that are air or not opaque are dropped.
func (m *SectionMesher) emitOpaqueFaces(faces *FaceMasks, baseX, baseY, baseZ int, dec VoxelDecoder, out *InstanceBuffer) int {
	emitted := 0
	uniformID, isUniform := dec.Uniform()
	if isUniform && !m.grid.IsOpaque(uniformID) {
		return 0
	}
	for _, face := range AllFaces {
		mask := &faces[face]
		if isUniform {
			emitted += m.emitUniformMask(mask, face, uniformID, baseX, baseY, baseZ, out)
			continue
		}
		for w := 0; w < MASK_WORDS; w++ {
			word := mask[w]
			for word != 0 {
				bit := bits.TrailingZeros64(word)
				word &= word - 1
				li := w<<6 + bit
				id := dec.Decode(li)
				if !m.grid.IsOpaque(id) {
					continue
				}
				out.Append(int32(baseX+int(lxFromLi[li])), int32(baseY+int(lyFromLi[li])), int32(baseZ+int(lzFromLi[li])), m.tiles.ResolveTile(id, face), face)
				emitted++
			}
		}
	}
	return emitted
}

// emitUniformMask appends every bit of mask as a face of id, resolving the tile once.
func (m *SectionMesher) emitUniformMask(mask *Bitset, face FaceType, id uint16, baseX, baseY, baseZ int, out *InstanceBuffer) int {
	if mask.IsEmpty() {
		return 0
	}
	tile := m.tiles.ResolveTile(id, face)
	emitted := 0
	for w := 0; w < MASK_WORDS; w++ {
		word := mask[w]
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &= word - 1
			li := w<<6 + bit
			out.Append(int32(baseX+int(lxFromLi[li])), int32(baseY+int(lyFromLi[li])), int32(baseZ+int(lzFromLi[li])), tile, face)
			emitted++
		}
	}
	return emitted
}

func (m *SectionMesher) emitTransparentFaces(faces *FaceMasks, id uint16, baseX, baseY, baseZ int, out *InstanceBuffer) int {
	emitted := 0
	for _, face := range AllFaces {
		emitted += m.emitUniformMask(&faces[face], face, id, baseX, baseY, baseZ, out)
	}
	return emitted
}

// emitOpaque derives and emits the opaque faces of a section.
func (m *SectionMesher) emitOpaque(sx, sy, sz int, occupancy *Bitset, bounds LocalBounds, dec VoxelDecoder, out *InstanceBuffer) int {
	faces := &m.scratch.faces
	m.grid.buildOpaqueFaceMasks(sx, sy, sz, occupancy, bounds, faces)
	n := faces.PopCount()
	if n == 0 {
		return 0
	}
	out.Grow(n)
	baseX, baseY, baseZ := m.grid.sectionBase(sx, sy, sz)
	return m.emitOpaqueFaces(faces, baseX, baseY, baseZ, dec, out)
}

// emitDominant emits the precomputed faces of the dominant translucent id.
// Sections the grid has not prepared get their faces derived here.
func (m *SectionMesher) emitDominant(sx, sy, sz int, s *SectionVoxelData, bounds LocalBounds, out *InstanceBuffer) int {
	faces := &m.scratch.faces
	if s.DominantTransparentFaces != nil {
		*faces = *s.DominantTransparentFaces
	} else {
		m.grid.deriveTransparentFaces(sx, sy, sz, s, s.DominantTransparentBits, s.DominantTransparentID, bounds, faces)
	}
	boundsMask := BoundsMask(bounds)
	for i := range faces {
		faces[i].And(s.DominantTransparentBits)
		faces[i].And(&boundsMask)
	}
	n := faces.PopCount()
	if n == 0 {
		return 0
	}
	out.Grow(n)
	baseX, baseY, baseZ := m.grid.sectionBase(sx, sy, sz)
	return m.emitTransparentFaces(faces, s.DominantTransparentID, baseX, baseY, baseZ, out)
}
