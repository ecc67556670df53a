package voxel

// BlockVolume is a dense, editable block store laid out as a section grid.
// It is the producer side of the mesher: edit blocks, then Build a read-only
// SectionGrid.
type BlockVolume struct {
	sectionsX, sectionsY, sectionsZ int
	data                            []*[SECTION_VOLUME]uint16
	planes                          [6]*BoundaryPlane
}

func NewBlockVolume(sectionsX, sectionsY, sectionsZ int) *BlockVolume {
	return &BlockVolume{
		sectionsX: sectionsX,
		sectionsY: sectionsY,
		sectionsZ: sectionsZ,
		data:      make([]*[SECTION_VOLUME]uint16, sectionsX*sectionsY*sectionsZ),
	}
}

func (v *BlockVolume) Contains(x, y, z int) bool {
	return x >= 0 && x < v.sectionsX*SECTION_SIZE && y >= 0 && y < v.sectionsY*SECTION_SIZE && z >= 0 && z < v.sectionsZ*SECTION_SIZE
}

func (v *BlockVolume) SetBlock(x, y, z int, id uint16) {
	if !v.Contains(x, y, z) {
		return
	}
	i := SectionIndex(x>>4, y>>4, z>>4, v.sectionsY, v.sectionsZ)
	if v.data[i] == nil {
		if id == AIR {
			return
		}
		v.data[i] = new([SECTION_VOLUME]uint16)
	}
	v.data[i][LocalIndex(x&15, y&15, z&15)] = id
}

func (v *BlockVolume) GetBlock(x, y, z int) uint16 {
	if !v.Contains(x, y, z) {
		return AIR
	}
	section := v.data[SectionIndex(x>>4, y>>4, z>>4, v.sectionsY, v.sectionsZ)]
	if section == nil {
		return AIR
	}
	return section[LocalIndex(x&15, y&15, z&15)]
}

// Fill sets every block of the inclusive box to id.
func (v *BlockVolume) Fill(from, to Int3, id uint16) {
	for x := from.X; x <= to.X; x++ {
		for y := from.Y; y <= to.Y; y++ {
			for z := from.Z; z <= to.Z; z++ {
				v.SetBlock(int(x), int(y), int(z), id)
			}
		}
	}
}

// SetSectionBlocks replaces a whole section with a dense id array. Sections
// outside the volume are ignored.
func (v *BlockVolume) SetSectionBlocks(sx, sy, sz int, ids *[SECTION_VOLUME]uint16) {
	if sx < 0 || sx >= v.sectionsX || sy < 0 || sy >= v.sectionsY || sz < 0 || sz >= v.sectionsZ {
		return
	}
	v.data[SectionIndex(sx, sy, sz, v.sectionsY, v.sectionsZ)] = ids
}

func (v *BlockVolume) SetBoundaryPlane(face FaceType, plane *BoundaryPlane) {
	v.planes[face] = plane
}

// Build classifies every section and prepares the dominant translucent faces.
func (v *BlockVolume) Build(blocks BlockClassifier) *SectionGrid {
	grid := NewSectionGrid(v.sectionsX, v.sectionsY, v.sectionsZ, blocks)
	for i, ids := range v.data {
		if ids == nil {
			continue
		}
		sx, sy, sz := grid.SectionCoords(i)
		grid.SetSection(sx, sy, sz, BuildSection(ids, blocks))
	}
	grid.planes = v.planes
	grid.PrepareDominantFaces()
	return grid
}
