package voxel

type StorageKind uint8

const (
	KindEmpty StorageKind = iota
	KindUniform
	KindPackedSingle
	KindMultiPacked
)

func (k StorageKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindUniform:
		return "uniform"
	case KindPackedSingle:
		return "packed-single"
	case KindMultiPacked:
		return "multi-packed"
	}
	return "unknown"
}

// LocalBounds is an inclusive box in local section coordinates.
type LocalBounds struct {
	MinX, MaxX int
	MinY, MaxY int
	MinZ, MaxZ int
}

var FullBounds = LocalBounds{0, SECTION_SIZE - 1, 0, SECTION_SIZE - 1, 0, SECTION_SIZE - 1}

func (b LocalBounds) Contains(lx, ly, lz int) bool {
	return lx >= b.MinX && lx <= b.MaxX && ly >= b.MinY && ly <= b.MaxY && lz >= b.MinZ && lz <= b.MaxZ
}

// SectionVoxelData is the read-only per section input of the mesher.
// OpaqueBits, TransparentBits and DominantTransparentBits never share a voxel.
type SectionVoxelData struct {
	Kind      StorageKind
	UniformID uint16

	PackedWords  []uint32
	BitsPerIndex int
	Palette      []uint16

	OpaqueBits  *Bitset
	OpaqueCount int

	// residual translucent voxels, every translucent id except the dominant one
	TransparentBits  *Bitset
	TransparentCount int

	DominantTransparentBits  *Bitset
	DominantTransparentCount int
	DominantTransparentID    uint16
	// boundary corrected faces of the dominant id, filled by SectionGrid.PrepareDominantFaces
	DominantTransparentFaces *FaceMasks

	// palette positions holding translucent ids
	TransparentPaletteIndices []int

	HasBounds bool
	Bounds    LocalBounds
}

func (s *SectionVoxelData) hasPackedData() bool {
	return s.PackedWords != nil && s.Palette != nil && s.BitsPerIndex > 0 && s.BitsPerIndex <= 32
}

// PaletteIndexAt returns the raw palette position stored for voxel li,
// or -1 if the section carries no usable packed data.
func (s *SectionVoxelData) PaletteIndexAt(li int) int {
	if !s.hasPackedData() {
		return -1
	}
	bpi := s.BitsPerIndex
	bitPos := li * bpi
	word := bitPos >> 5
	offset := uint(bitPos & 31)
	if word >= len(s.PackedWords) {
		return -1
	}
	value := uint64(s.PackedWords[word]) >> offset
	if rem := 32 - int(offset); rem < bpi && word+1 < len(s.PackedWords) {
		value |= uint64(s.PackedWords[word+1]) << uint(rem)
	}
	return int(value & (1<<uint(bpi) - 1))
}

// DecodeIndex returns the block id of voxel li. Missing data and out of range
// palette positions decode to AIR.
func (s *SectionVoxelData) DecodeIndex(li int) uint16 {
	pi := s.PaletteIndexAt(li)
	if uint(pi) >= uint(len(s.Palette)) {
		return AIR
	}
	return s.Palette[pi]
}

func (s *SectionVoxelData) DecodeLocal(lx, ly, lz int) uint16 {
	return s.DecodeIndex(LocalIndex(lx, ly, lz))
}

// BlockAt returns the block id at a local coordinate for any storage kind.
func (s *SectionVoxelData) BlockAt(lx, ly, lz int) uint16 {
	if s == nil {
		return AIR
	}
	switch s.Kind {
	case KindUniform:
		return s.UniformID
	case KindPackedSingle, KindMultiPacked:
		return s.DecodeLocal(lx, ly, lz)
	}
	return AIR
}

// SingleID returns the only non air id of a packed single section.
func (s *SectionVoxelData) SingleID() (uint16, bool) {
	if s.Kind != KindPackedSingle || len(s.Palette) < 2 {
		return AIR, false
	}
	id := s.Palette[1]
	return id, id != AIR
}

func (s *SectionVoxelData) hasOpaque() bool {
	return s.OpaqueBits != nil && s.OpaqueCount > 0
}

func (s *SectionVoxelData) hasResidualTransparent() bool {
	return s.TransparentBits != nil && s.TransparentCount > 0
}

func (s *SectionVoxelData) hasDominantTransparent() bool {
	return s.DominantTransparentBits != nil && s.DominantTransparentCount > 0
}
