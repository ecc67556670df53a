package voxel

import "math/bits"

// BitsForPalette returns the packed index width needed to address n palette entries.
func BitsForPalette(n int) int {
	if n <= 2 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// PackIndices concatenates fixed width palette positions into 32 bit words.
// A position may straddle two words.
func PackIndices(indices []int, bitsPerIndex int) []uint32 {
	words := make([]uint32, (len(indices)*bitsPerIndex+31)/32)
	mask := uint64(1)<<uint(bitsPerIndex) - 1
	for li, pi := range indices {
		bitPos := li * bitsPerIndex
		word := bitPos >> 5
		offset := uint(bitPos & 31)
		v := (uint64(pi) & mask) << offset
		words[word] |= uint32(v)
		if hi := uint32(v >> 32); hi != 0 {
			words[word+1] |= hi
		}
	}
	return words
}

// BuildSection classifies a dense id array (indexed by LocalIndex) into the
// packed representation consumed by the mesher.
func BuildSection(ids *[SECTION_VOLUME]uint16, blocks BlockClassifier) *SectionVoxelData {
	palette := []uint16{AIR}
	paletteIndex := map[uint16]int{AIR: 0}
	indices := make([]int, SECTION_VOLUME)
	counts := map[uint16]int{}
	nonAir := 0
	for li, id := range ids {
		pi, ok := paletteIndex[id]
		if !ok {
			pi = len(palette)
			paletteIndex[id] = pi
			palette = append(palette, id)
		}
		indices[li] = pi
		if id != AIR {
			counts[id]++
			nonAir++
		}
	}

	s := &SectionVoxelData{}
	switch {
	case nonAir == 0:
		s.Kind = KindEmpty
		return s
	case nonAir == SECTION_VOLUME && len(palette) == 2:
		s.Kind = KindUniform
		s.UniformID = palette[1]
	case len(palette) == 2:
		s.Kind = KindPackedSingle
	default:
		s.Kind = KindMultiPacked
	}
	if s.Kind != KindUniform {
		s.Palette = palette
		s.BitsPerIndex = BitsForPalette(len(palette))
		s.PackedWords = PackIndices(indices, s.BitsPerIndex)
	}

	var dominant uint16
	dominantCount := 0
	for id, c := range counts {
		if blocks.IsOpaque(id) {
			continue
		}
		if c > dominantCount || (c == dominantCount && id < dominant) {
			dominant, dominantCount = id, c
		}
	}

	var opaque, residual, dom Bitset
	bounds := LocalBounds{MinX: SECTION_SIZE, MinY: SECTION_SIZE, MinZ: SECTION_SIZE, MaxX: -1, MaxY: -1, MaxZ: -1}
	for li, id := range ids {
		if id == AIR {
			continue
		}
		switch {
		case blocks.IsOpaque(id):
			opaque.Set(li)
		case id == dominant:
			dom.Set(li)
		default:
			residual.Set(li)
		}
		lx, ly, lz := LocalCoords(li)
		bounds.MinX, bounds.MaxX = min(bounds.MinX, lx), max(bounds.MaxX, lx)
		bounds.MinY, bounds.MaxY = min(bounds.MinY, ly), max(bounds.MaxY, ly)
		bounds.MinZ, bounds.MaxZ = min(bounds.MinZ, lz), max(bounds.MaxZ, lz)
	}
	s.HasBounds = true
	s.Bounds = bounds

	if c := opaque.PopCount(); c > 0 {
		s.OpaqueBits, s.OpaqueCount = &opaque, c
	}
	if c := residual.PopCount(); c > 0 {
		s.TransparentBits, s.TransparentCount = &residual, c
	}
	if dominantCount > 0 {
		s.DominantTransparentBits, s.DominantTransparentCount = &dom, dominantCount
		s.DominantTransparentID = dominant
	}
	for pi, id := range s.Palette {
		if id != AIR && !blocks.IsOpaque(id) {
			s.TransparentPaletteIndices = append(s.TransparentPaletteIndices, pi)
		}
	}
	return s
}

// ExpandSection decodes a section back into a dense id array.
func ExpandSection(s *SectionVoxelData) *[SECTION_VOLUME]uint16 {
	var ids [SECTION_VOLUME]uint16
	if s == nil {
		return &ids
	}
	for li := range ids {
		lx, ly, lz := LocalCoords(li)
		ids[li] = s.BlockAt(lx, ly, lz)
	}
	return &ids
}
