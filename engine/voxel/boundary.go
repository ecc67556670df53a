package voxel

import "math/bits"

// BoundaryPlane is the facing layer of whatever borders the grid on one side:
// an opaque bit and a translucent id per cell over the two non normal axes.
type BoundaryPlane struct {
	Opaque         []uint64
	TransparentIDs []uint16
}

func NewBoundaryPlane(cells int) *BoundaryPlane {
	return &BoundaryPlane{
		Opaque:         make([]uint64, (cells+63)/64),
		TransparentIDs: make([]uint16, cells),
	}
}

func (p *BoundaryPlane) SetCell(i int, opaque bool, transparentID uint16) {
	if opaque {
		p.Opaque[i>>6] |= 1 << uint(i&63)
	} else {
		p.Opaque[i>>6] &^= 1 << uint(i&63)
	}
	p.TransparentIDs[i] = transparentID
}

func (p *BoundaryPlane) OpaqueAt(i int) bool {
	if p == nil || i < 0 || i>>6 >= len(p.Opaque) {
		return false
	}
	return p.Opaque[i>>6]&(1<<uint(i&63)) != 0
}

func (p *BoundaryPlane) TransparentAt(i int) uint16 {
	if p == nil || uint(i) >= uint(len(p.TransparentIDs)) {
		return AIR
	}
	return p.TransparentIDs[i]
}

// PlaneCells returns the number of cells of the plane bordering face.
func (g *SectionGrid) PlaneCells(face FaceType) int {
	switch face {
	case XN, XP:
		return g.maxZ * g.maxY
	case YN, YP:
		return g.maxX * g.maxZ
	}
	return g.maxX * g.maxY
}

// PlaneIndex maps a grid coordinate onto the cell of the plane bordering face.
// Only the two non normal coordinates are used.
func (g *SectionGrid) PlaneIndex(face FaceType, wx, wy, wz int) int {
	switch face {
	case XN, XP:
		return wz*g.maxY + wy
	case YN, YP:
		return wx*g.maxZ + wz
	}
	return wx*g.maxY + wy
}

func (g *SectionGrid) SetBoundaryPlane(face FaceType, plane *BoundaryPlane) {
	g.planes[face] = plane
}

func (g *SectionGrid) BoundaryPlane(face FaceType) *BoundaryPlane {
	return g.planes[face]
}

type neighborCell struct {
	opaque bool
	id     uint16
}

// neighborCell looks at the cell next to (wx, wy, wz) in direction face. Inside
// the grid the neighbor section is decoded, outside the boundary plane is used.
// Without a plane the cell counts as air.
func (g *SectionGrid) neighborCell(wx, wy, wz int, face FaceType) neighborCell {
	n := face.Normal()
	nx, ny, nz := wx+int(n.X), wy+int(n.Y), wz+int(n.Z)
	if g.ContainsBlock(nx, ny, nz) {
		id := g.GetBlock(nx, ny, nz)
		if g.IsOpaque(id) {
			return neighborCell{opaque: true, id: id}
		}
		return neighborCell{id: id}
	}
	plane := g.planes[face]
	if plane == nil {
		return neighborCell{}
	}
	pi := g.PlaneIndex(face, wx, wy, wz)
	return neighborCell{opaque: plane.OpaqueAt(pi), id: plane.TransparentAt(pi)}
}

// neighborSkipDirs flags the directions whose adjacent section is fully opaque.
func (g *SectionGrid) neighborSkipDirs(sx, sy, sz int) [6]bool {
	var skip [6]bool
	for _, face := range AllFaces {
		n := face.Normal()
		nsx, nsy, nsz := sx+int(n.X), sy+int(n.Y), sz+int(n.Z)
		if !g.Contains(nsx, nsy, nsz) {
			continue
		}
		skip[face] = g.NeighborFullySolid(g.Section(nsx, nsy, nsz))
	}
	return skip
}

// reinsertBoundaryFaces replaces the edge bits of faces. Edge bits default to
// hidden; an occupied edge voxel inside bounds gets its face back unless the
// neighbor cell is opaque or, when sameID is not AIR, holds sameID.
func (g *SectionGrid) reinsertBoundaryFaces(sx, sy, sz int, occupancy, bounds *Bitset, skip [6]bool, sameID uint16, faces *FaceMasks) {
	baseX, baseY, baseZ := g.sectionBase(sx, sy, sz)
	for _, face := range AllFaces {
		edge := &edgeLayers[face]
		dst := &faces[face]
		dst.AndNot(edge)
		if skip[face] {
			continue
		}
		for w := 0; w < MASK_WORDS; w++ {
			word := occupancy[w] & edge[w] & bounds[w]
			for word != 0 {
				bit := bits.TrailingZeros64(word)
				word &= word - 1
				li := w<<6 + bit
				lx, ly, lz := LocalCoords(li)
				cell := g.neighborCell(baseX+lx, baseY+ly, baseZ+lz, face)
				if cell.opaque || (sameID != AIR && cell.id == sameID) {
					continue
				}
				dst[w] |= 1 << uint(bit)
			}
		}
	}
}

// buildOpaqueFaceMasks runs internal derivation, boundary reinsertion and
// bounds trimming for an opaque occupancy set.
func (g *SectionGrid) buildOpaqueFaceMasks(sx, sy, sz int, occupancy *Bitset, bounds LocalBounds, faces *FaceMasks) {
	BuildInternalFaceMasks(occupancy, faces)
	skip := g.neighborSkipDirs(sx, sy, sz)
	boundsMask := BoundsMask(bounds)
	g.reinsertBoundaryFaces(sx, sy, sz, occupancy, &boundsMask, skip, AIR, faces)
	ApplyBoundsMask(bounds, faces)
}

// deriveTransparentFaces does the same for the voxels of one translucent id,
// with same id seams and opaque neighbors hiding faces.
func (g *SectionGrid) deriveTransparentFaces(sx, sy, sz int, s *SectionVoxelData, voxels *Bitset, id uint16, bounds LocalBounds, faces *FaceMasks) {
	BuildTransparentFaceMasks(voxels, s.OpaqueBits, faces)
	skip := g.neighborSkipDirs(sx, sy, sz)
	boundsMask := BoundsMask(bounds)
	g.reinsertBoundaryFaces(sx, sy, sz, voxels, &boundsMask, skip, id, faces)
	ApplyBoundsMask(bounds, faces)
}
