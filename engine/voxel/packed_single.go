package voxel

// fullOccupancy has every voxel of a section set.
var fullOccupancy = func() (b Bitset) {
	for i := range b {
		b[i] = ^uint64(0)
	}
	return b
}()

// EmitPackedSingleSection meshes a packed section holding air and one block id.
func (m *SectionMesher) EmitPackedSingleSection(sx, sy, sz int, opaque, transparent *InstanceBuffer) (MeshStats, bool) {
	s := m.grid.Section(sx, sy, sz)
	if s == nil || s.Kind != KindPackedSingle || !s.hasPackedData() {
		return MeshStats{}, false
	}
	id, ok := s.SingleID()
	if !ok {
		return MeshStats{}, true
	}
	return m.emitSingleID(sx, sy, sz, s, id, opaque, transparent), true
}

// EmitUniformSection meshes a section filled with a single block id. Only the
// faces on the section border can be visible.
func (m *SectionMesher) EmitUniformSection(sx, sy, sz int, opaque, transparent *InstanceBuffer) (MeshStats, bool) {
	s := m.grid.Section(sx, sy, sz)
	if s == nil || s.Kind != KindUniform {
		return MeshStats{}, false
	}
	if s.UniformID == AIR {
		return MeshStats{}, true
	}
	return m.emitSingleID(sx, sy, sz, s, s.UniformID, opaque, transparent), true
}

func (m *SectionMesher) emitSingleID(sx, sy, sz int, s *SectionVoxelData, id uint16, opaque, transparent *InstanceBuffer) MeshStats {
	var stats MeshStats
	bounds := m.grid.ResolveLocalBounds(s)
	if m.grid.IsOpaque(id) {
		occupancy := s.OpaqueBits
		if occupancy == nil {
			if s.Kind != KindUniform {
				return stats
			}
			occupancy = &fullOccupancy
		}
		stats.OpaqueFaces = m.emitOpaque(sx, sy, sz, occupancy, bounds, UniformDecoder(id), opaque)
		return stats
	}

	if s.hasDominantTransparent() && s.DominantTransparentID == id {
		stats.TransparentFaces = m.emitDominant(sx, sy, sz, s, bounds, transparent)
		return stats
	}
	occupancy := s.TransparentBits
	if occupancy == nil {
		if s.Kind != KindUniform {
			return stats
		}
		occupancy = &fullOccupancy
	}
	faces := &m.scratch.faces
	m.grid.deriveTransparentFaces(sx, sy, sz, s, occupancy, id, bounds, faces)
	n := faces.PopCount()
	if n == 0 {
		return stats
	}
	transparent.Grow(n)
	baseX, baseY, baseZ := m.grid.sectionBase(sx, sy, sz)
	stats.TransparentFaces = m.emitTransparentFaces(faces, id, baseX, baseY, baseZ, transparent)
	return stats
}
