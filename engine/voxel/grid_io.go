package voxel

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/zstd"
	"github.com/memmaker/voxelmesh/engine/util"
	"github.com/pkg/errors"
)

const gridSnapshotVersion = 1

// MAX_GRID_SECTIONS caps the section count a snapshot may declare.
const MAX_GRID_SECTIONS = 4096

/*
	TAG_Compound({
	    "version": TAG_Int(),
	    "sections_x", "sections_y", "sections_z": TAG_Int(),
	    "sections": TAG_List([
	        TAG_Compound({
	            "index": TAG_Int(),
	            "kind": TAG_Byte(),
	            "uniform_id": TAG_Int(),
	            "bits_per_index": TAG_Int(),
	            "palette": TAG_Int_Array(),
	            "words": TAG_Int_Array()
	        })
	    ]),
	    "planes": TAG_List([
	        TAG_Compound({
	            "face": TAG_Byte(),
	            "opaque": TAG_Long_Array(),
	            "transparent_ids": TAG_Int_Array()
	        })
	    ])
	})
*/
type gridSnapshot struct {
	Version   int32             `nbt:"version"`
	SectionsX int32             `nbt:"sections_x"`
	SectionsY int32             `nbt:"sections_y"`
	SectionsZ int32             `nbt:"sections_z"`
	Sections  []sectionSnapshot `nbt:"sections"`
	Planes    []planeSnapshot   `nbt:"planes"`
}

type sectionSnapshot struct {
	Index        int32   `nbt:"index"`
	Kind         byte    `nbt:"kind"`
	UniformID    int32   `nbt:"uniform_id"`
	BitsPerIndex int32   `nbt:"bits_per_index"`
	Palette      []int32 `nbt:"palette"`
	Words        []int32 `nbt:"words"`
}

type planeSnapshot struct {
	Face           byte    `nbt:"face"`
	Opaque         []int64 `nbt:"opaque"`
	TransparentIDs []int32 `nbt:"transparent_ids"`
}

// SaveGrid writes the sections and boundary planes of grid as a zstd
// compressed NBT document. Empty sections are not written.
func SaveGrid(w io.Writer, grid *SectionGrid) error {
	if grid.SectionCount() > MAX_GRID_SECTIONS {
		return errors.Errorf("grid of %d sections exceeds %d", grid.SectionCount(), MAX_GRID_SECTIONS)
	}
	snap := gridSnapshot{
		Version:   gridSnapshotVersion,
		SectionsX: int32(grid.sectionsX),
		SectionsY: int32(grid.sectionsY),
		SectionsZ: int32(grid.sectionsZ),
	}
	for i, s := range grid.sections {
		if s == nil || s.Kind == KindEmpty {
			continue
		}
		snap.Sections = append(snap.Sections, snapshotSection(int32(i), s))
	}
	for _, face := range AllFaces {
		plane := grid.planes[face]
		if plane == nil {
			continue
		}
		ps := planeSnapshot{
			Face:           byte(face),
			Opaque:         make([]int64, len(plane.Opaque)),
			TransparentIDs: make([]int32, len(plane.TransparentIDs)),
		}
		for i, word := range plane.Opaque {
			ps.Opaque[i] = int64(word)
		}
		for i, id := range plane.TransparentIDs {
			ps.TransparentIDs[i] = int32(id)
		}
		snap.Planes = append(snap.Planes, ps)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.Wrap(err, "create zstd writer")
	}
	bw := bufio.NewWriterSize(enc, 64*1024)
	if err = nbt.NewEncoder(bw).Encode(snap, "grid"); err != nil {
		enc.Close()
		return errors.Wrap(err, "encode grid")
	}
	if err = bw.Flush(); err != nil {
		enc.Close()
		return errors.Wrap(err, "flush grid")
	}
	if err = enc.Close(); err != nil {
		return errors.Wrap(err, "close zstd writer")
	}
	util.LogIODebug(fmt.Sprintf("[GridIO] saved %d sections, %d planes", len(snap.Sections), len(snap.Planes)))
	return nil
}

func snapshotSection(index int32, s *SectionVoxelData) sectionSnapshot {
	ss := sectionSnapshot{
		Index:        index,
		Kind:         byte(s.Kind),
		UniformID:    int32(s.UniformID),
		BitsPerIndex: int32(s.BitsPerIndex),
		Palette:      make([]int32, len(s.Palette)),
		Words:        make([]int32, len(s.PackedWords)),
	}
	for i, id := range s.Palette {
		ss.Palette[i] = int32(id)
	}
	for i, word := range s.PackedWords {
		ss.Words[i] = int32(word)
	}
	return ss
}

// LoadGrid reads a document written by SaveGrid and rebuilds occupancy,
// bounds and dominant faces with blocks as the material classification.
func LoadGrid(r io.Reader, blocks BlockClassifier) (*SectionGrid, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "create zstd reader")
	}
	defer dec.Close()

	var snap gridSnapshot
	if _, err = nbt.NewDecoder(bufio.NewReaderSize(dec, 64*1024)).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "decode grid")
	}
	if snap.Version != gridSnapshotVersion {
		return nil, errors.Errorf("unsupported grid version %d", snap.Version)
	}
	if snap.SectionsX <= 0 || snap.SectionsY <= 0 || snap.SectionsZ <= 0 {
		return nil, errors.Errorf("invalid grid dimensions %dx%dx%d", snap.SectionsX, snap.SectionsY, snap.SectionsZ)
	}
	if total := int64(snap.SectionsX) * int64(snap.SectionsY) * int64(snap.SectionsZ); total > MAX_GRID_SECTIONS {
		return nil, errors.Errorf("grid dimensions %dx%dx%d exceed %d sections", snap.SectionsX, snap.SectionsY, snap.SectionsZ, MAX_GRID_SECTIONS)
	}

	volume := NewBlockVolume(int(snap.SectionsX), int(snap.SectionsY), int(snap.SectionsZ))
	count := int32(len(volume.data))
	seen := make(map[int32]bool, len(snap.Sections))
	for _, ss := range snap.Sections {
		if ss.Index < 0 || ss.Index >= count {
			return nil, errors.Errorf("section index %d out of range", ss.Index)
		}
		if seen[ss.Index] {
			return nil, errors.Errorf("section %d stored twice", ss.Index)
		}
		seen[ss.Index] = true
		s, err := restoreSection(ss)
		if err != nil {
			return nil, errors.Wrapf(err, "section %d", ss.Index)
		}
		volume.data[ss.Index] = ExpandSection(s)
	}

	for _, ps := range snap.Planes {
		if ps.Face > byte(ZP) {
			return nil, errors.Errorf("invalid plane face %d", ps.Face)
		}
		plane := &BoundaryPlane{
			Opaque:         make([]uint64, len(ps.Opaque)),
			TransparentIDs: make([]uint16, len(ps.TransparentIDs)),
		}
		for i, word := range ps.Opaque {
			plane.Opaque[i] = uint64(word)
		}
		for i, id := range ps.TransparentIDs {
			if id < 0 || id > 0xFFFF {
				return nil, errors.Errorf("plane %s: block id %d out of range", FaceType(ps.Face), id)
			}
			plane.TransparentIDs[i] = uint16(id)
		}
		volume.SetBoundaryPlane(FaceType(ps.Face), plane)
	}

	grid := volume.Build(blocks)
	for face, plane := range grid.planes {
		if plane != nil && len(plane.TransparentIDs) != grid.PlaneCells(FaceType(face)) {
			util.LogIOError(fmt.Sprintf("[GridIO] plane %s has %d cells, grid needs %d", FaceType(face), len(plane.TransparentIDs), grid.PlaneCells(FaceType(face))))
		}
	}
	util.LogIODebug(fmt.Sprintf("[GridIO] loaded %dx%dx%d sections (%d stored)", snap.SectionsX, snap.SectionsY, snap.SectionsZ, len(snap.Sections)))
	return grid, nil
}

// restoreSection validates a stored section and turns it back into section data.
func restoreSection(ss sectionSnapshot) (*SectionVoxelData, error) {
	s := &SectionVoxelData{Kind: StorageKind(ss.Kind)}
	switch s.Kind {
	case KindEmpty:
		return s, nil
	case KindUniform:
		if ss.UniformID < 0 || ss.UniformID > 0xFFFF {
			return nil, errors.Errorf("uniform id %d out of range", ss.UniformID)
		}
		s.UniformID = uint16(ss.UniformID)
		return s, nil
	case KindPackedSingle, KindMultiPacked:
	default:
		return nil, errors.Errorf("unknown storage kind %d", ss.Kind)
	}

	bpi := int(ss.BitsPerIndex)
	if bpi < 1 || bpi > 32 {
		return nil, errors.Errorf("bits per index %d not in 1..32", bpi)
	}
	if len(ss.Palette) == 0 || ss.Palette[0] != int32(AIR) {
		return nil, errors.New("palette must start with air")
	}
	if bpi < 32 && len(ss.Palette) > 1<<uint(bpi) {
		return nil, errors.Errorf("palette of %d entries does not fit %d bits", len(ss.Palette), bpi)
	}
	if want := (SECTION_VOLUME*bpi + 31) / 32; len(ss.Words) != want {
		return nil, errors.Errorf("got %d packed words, want %d", len(ss.Words), want)
	}
	s.BitsPerIndex = bpi
	s.Palette = make([]uint16, len(ss.Palette))
	for i, id := range ss.Palette {
		if id < 0 || id > 0xFFFF {
			return nil, errors.Errorf("palette entry %d: block id %d out of range", i, id)
		}
		s.Palette[i] = uint16(id)
	}
	s.PackedWords = make([]uint32, len(ss.Words))
	for i, word := range ss.Words {
		s.PackedWords[i] = uint32(word)
	}
	return s, nil
}

func SaveGridFile(filename string, grid *SectionGrid) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create grid file")
	}
	if err = SaveGrid(file, grid); err != nil {
		file.Close()
		return errors.Wrapf(err, "save %s", filename)
	}
	return errors.Wrap(file.Close(), "close grid file")
}

func LoadGridFile(filename string, blocks BlockClassifier) (*SectionGrid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open grid file")
	}
	defer file.Close()
	grid, err := LoadGrid(file, blocks)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filename)
	}
	return grid, nil
}
