package voxel

// meshScratch is the per worker scratch of a SectionMesher. Nothing in it
// survives a single section emission.
type meshScratch struct {
	faces FaceMasks

	// per id occupancy arena of the residual path, indexed by dense position
	arena []Bitset
	used  []bool
	ids   []uint16

	// palette position -> dense slot, -1 for positions the residual scan ignores
	denseByPos []int
	idToDense  map[uint16]int
}

func newMeshScratch() *meshScratch {
	return &meshScratch{idToDense: make(map[uint16]int)}
}

// prepareResidual builds the dense id mapping for s and sizes the arena to its
// translucent palette entries. Duplicate palette ids share the slot of their
// first occurrence. Opaque ids and the dominant id get no slot.
func (m *meshScratch) prepareResidual(s *SectionVoxelData, blocks BlockClassifier) int {
	for id := range m.idToDense {
		delete(m.idToDense, id)
	}
	m.ids = m.ids[:0]
	if cap(m.denseByPos) < len(s.Palette) {
		m.denseByPos = make([]int, len(s.Palette))
	}
	m.denseByPos = m.denseByPos[:len(s.Palette)]
	for i := range m.denseByPos {
		m.denseByPos[i] = -1
	}
	positions := s.TransparentPaletteIndices
	if positions == nil {
		// sections built without the index list get every palette position checked
		positions = make([]int, len(s.Palette))
		for i := range positions {
			positions[i] = i
		}
	}
	for _, pi := range positions {
		if pi <= 0 || pi >= len(s.Palette) {
			continue
		}
		id := s.Palette[pi]
		if id == AIR || blocks.IsOpaque(id) {
			continue
		}
		if s.hasDominantTransparent() && id == s.DominantTransparentID {
			continue
		}
		d, ok := m.idToDense[id]
		if !ok {
			d = len(m.ids)
			m.idToDense[id] = d
			m.ids = append(m.ids, id)
		}
		m.denseByPos[pi] = d
	}

	slots := len(m.ids)
	if cap(m.arena) < slots {
		m.arena = make([]Bitset, slots)
		m.used = make([]bool, slots)
	}
	m.arena = m.arena[:slots]
	m.used = m.used[:slots]
	return slots
}

// slot returns the occupancy of dense slot d, clearing it on first use.
func (m *meshScratch) slot(d int) *Bitset {
	if !m.used[d] {
		m.arena[d].Reset()
		m.used[d] = true
	}
	return &m.arena[d]
}

func (m *meshScratch) releaseResidual() {
	for i := range m.used {
		m.used[i] = false
	}
}
