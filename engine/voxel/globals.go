package voxel

const (
	AIR            uint16 = 0
	SECTION_SIZE   int    = 16
	SECTION_AREA   int    = SECTION_SIZE * SECTION_SIZE
	SECTION_VOLUME int    = SECTION_SIZE * SECTION_SIZE * SECTION_SIZE
	MASK_WORDS     int    = SECTION_VOLUME / 64

	// index strides for li = ((z*16 + x) << 4) + y
	STRIDE_Y int = 1
	STRIDE_X int = SECTION_SIZE
	STRIDE_Z int = SECTION_AREA
)

// LocalIndex returns the linear voxel index of a local section coordinate.
// Y varies fastest, then X, then Z.
func LocalIndex(lx, ly, lz int) int {
	return ((lz*SECTION_SIZE + lx) << 4) + ly
}

// coordinate tables indexed by li
var lxFromLi, lyFromLi, lzFromLi = localCoordTables()

func localCoordTables() (xs, ys, zs [SECTION_VOLUME]uint8) {
	for li := 0; li < SECTION_VOLUME; li++ {
		ys[li] = uint8(li & 15)
		xs[li] = uint8((li >> 4) & 15)
		zs[li] = uint8(li >> 8)
	}
	return xs, ys, zs
}

// LocalCoords is the inverse of LocalIndex.
func LocalCoords(li int) (lx, ly, lz int) {
	return int(lxFromLi[li]), int(lyFromLi[li]), int(lzFromLi[li])
}
