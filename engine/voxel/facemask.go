package voxel

// FaceMasks holds one visibility bitset per face direction, indexed by FaceType.
type FaceMasks [6]Bitset

func (f *FaceMasks) Reset() {
	*f = FaceMasks{}
}

func (f *FaceMasks) PopCount() int {
	c := 0
	for i := range f {
		c += f[i].PopCount()
	}
	return c
}

// edgeLayers[face] marks the voxels whose neighbor in that direction lies in
// another section.
var edgeLayers = buildEdgeLayers()

func buildEdgeLayers() (layers [6]Bitset) {
	for li := 0; li < SECTION_VOLUME; li++ {
		ly, lx, lz := li&15, (li>>4)&15, li>>8
		if lx == 0 {
			layers[XN].Set(li)
		}
		if lx == SECTION_SIZE-1 {
			layers[XP].Set(li)
		}
		if ly == 0 {
			layers[YN].Set(li)
		}
		if ly == SECTION_SIZE-1 {
			layers[YP].Set(li)
		}
		if lz == 0 {
			layers[ZN].Set(li)
		}
		if lz == SECTION_SIZE-1 {
			layers[ZP].Set(li)
		}
	}
	return layers
}

func EdgeLayer(face FaceType) *Bitset {
	return &edgeLayers[face]
}

// BuildInternalFaceMasks sets out[face] = occupancy & ^neighbor(occupancy) for
// all six directions. Voxels on the section edge always come out exposed.
func BuildInternalFaceMasks(occupancy *Bitset, out *FaceMasks) {
	var shifted Bitset
	for _, face := range AllFaces {
		shiftTowardNeighbor(&shifted, occupancy, face)
		dst := &out[face]
		for i := 0; i < MASK_WORDS; i++ {
			dst[i] = occupancy[i] &^ shifted[i]
		}
	}
}

// BuildTransparentFaceMasks derives faces of a single translucent id: a face is
// hidden by a neighbor holding the same id or by any opaque neighbor.
// A nil opaque set means no opaque voxels.
func BuildTransparentFaceMasks(voxels, opaque *Bitset, out *FaceMasks) {
	if opaque == nil {
		BuildInternalFaceMasks(voxels, out)
		return
	}
	var shift, tmp Bitset
	for _, face := range AllFaces {
		shiftTowardNeighbor(&shift, voxels, face)
		shiftTowardNeighbor(&tmp, opaque, face)
		dst := &out[face]
		for i := 0; i < MASK_WORDS; i++ {
			dst[i] = voxels[i] &^ shift[i] &^ tmp[i]
		}
	}
}

// BoundsMask returns a set with every voxel inside b.
func BoundsMask(b LocalBounds) Bitset {
	var mask Bitset
	if b.MaxX < b.MinX || b.MaxY < b.MinY || b.MaxZ < b.MinZ {
		return mask
	}
	column := (uint64(1)<<uint(b.MaxY-b.MinY+1) - 1) << uint(b.MinY)
	for lz := b.MinZ; lz <= b.MaxZ; lz++ {
		for lx := b.MinX; lx <= b.MaxX; lx++ {
			col := lz*SECTION_SIZE + lx
			// four 16 voxel columns per word
			mask[col>>2] |= column << uint((col&3)*16)
		}
	}
	return mask
}

// ApplyBoundsMask clears every face bit outside b.
func ApplyBoundsMask(b LocalBounds, faces *FaceMasks) {
	if b == FullBounds {
		return
	}
	mask := BoundsMask(b)
	for i := range faces {
		faces[i].And(&mask)
	}
}
