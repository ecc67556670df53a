package voxel

import "math/bits"

// EmitMultiPackedSection meshes a section stored as packed palette indices
// with several block ids. Opaque faces go to opaque, translucent faces to
// transparent. It returns false if the section is not multi packed or its
// packed data is unusable, so the caller can fall back to another handler.
func (m *SectionMesher) EmitMultiPackedSection(sx, sy, sz int, opaque, transparent *InstanceBuffer) (MeshStats, bool) {
	var stats MeshStats
	s := m.grid.Section(sx, sy, sz)
	if s == nil || s.Kind != KindMultiPacked || !s.hasPackedData() {
		return stats, false
	}
	if !s.hasOpaque() && !s.hasDominantTransparent() && !s.hasResidualTransparent() {
		return stats, true
	}
	bounds := m.grid.ResolveLocalBounds(s)

	if s.hasOpaque() {
		stats.OpaqueFaces = m.emitOpaque(sx, sy, sz, s.OpaqueBits, bounds, PackedDecoder(s), opaque)
	}
	if s.hasDominantTransparent() {
		stats.TransparentFaces += m.emitDominant(sx, sy, sz, s, bounds, transparent)
	}
	if s.hasResidualTransparent() {
		stats.TransparentFaces += m.emitResidual(sx, sy, sz, s, bounds, transparent)
	}
	return stats, true
}

// emitResidual splits the residual translucent voxels by block id and meshes
// each id on its own, so same id seams cancel and different ids face each other.
func (m *SectionMesher) emitResidual(sx, sy, sz int, s *SectionVoxelData, bounds LocalBounds, out *InstanceBuffer) int {
	sc := m.scratch
	if sc.prepareResidual(s, m.grid.Blocks()) == 0 {
		return 0
	}
	defer sc.releaseResidual()

	residual := s.TransparentBits
	for w := 0; w < MASK_WORDS; w++ {
		word := residual[w]
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &= word - 1
			li := w<<6 + bit
			pi := s.PaletteIndexAt(li)
			if uint(pi) >= uint(len(sc.denseByPos)) {
				continue
			}
			if d := sc.denseByPos[pi]; d >= 0 {
				sc.slot(d).Set(li)
			}
		}
	}

	emitted := 0
	baseX, baseY, baseZ := m.grid.sectionBase(sx, sy, sz)
	faces := &sc.faces
	for d, used := range sc.used {
		if !used {
			continue
		}
		id := sc.ids[d]
		m.grid.deriveTransparentFaces(sx, sy, sz, s, &sc.arena[d], id, bounds, faces)
		n := faces.PopCount()
		if n == 0 {
			continue
		}
		out.Grow(n)
		emitted += m.emitTransparentFaces(faces, id, baseX, baseY, baseZ, out)
	}
	return emitted
}
