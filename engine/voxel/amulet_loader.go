package voxel

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/memmaker/voxelmesh/engine/util"
	"github.com/pkg/errors"
)

const constructionMagic = "constrct"

// Amulet .construction files hold gzipped NBT section entries followed by a
// gzipped NBT metadata compound, the int32 offset of that compound and the
// magic number again.
/*
	TAG_Compound({
	    "block_entities": TAG_List([...]),
	    "blocks_array_type": TAG_Byte(),
	    "blocks": TAG_Byte_Array() | TAG_Int_Array()
	})
*/
type SectionBlockInfo struct {
	BlocksArrayType byte `nbt:"blocks_array_type"`
}

type ByteSection struct {
	BlockEntities []BlockEntity `nbt:"block_entities"`
	Blocks        []byte        `nbt:"blocks"`
}

type IntSection struct {
	BlockEntities []BlockEntity `nbt:"block_entities"`
	Blocks        []int32       `nbt:"blocks"`
}

type BlockEntity struct {
	Namespace string `nbt:"namespace"`
	Name      string `nbt:"base_name"`
	X         int32  `nbt:"x"`
	Y         int32  `nbt:"y"`
	Z         int32  `nbt:"z"`
}

type AmuletMetadata struct {
	SectionIndexTable []byte             `nbt:"section_index_table"`
	BlockPalette      []*BlockDefinition `nbt:"block_palette"`
	CreatedWith       string             `nbt:"created_with"`
}

type BlockDefinition struct {
	Name      string `nbt:"blockname"`
	NameSpace string `nbt:"namespace"`
}

type Construction struct {
	Sections []*ConstructionSection
}

// ConstructionSection is a box of blocks, stored x major then y then z.
type ConstructionSection struct {
	Blocks        []*BlockDefinition
	ShapeX        uint8
	ShapeY        uint8
	ShapeZ        uint8
	MinBlockX     int32
	MinBlockY     int32
	MinBlockZ     int32
	BlockEntities []BlockEntity
}

func (s *ConstructionSection) BlockAt(x, y, z int) *BlockDefinition {
	i := (x*int(s.ShapeY)+y)*int(s.ShapeZ) + z
	if i < 0 || i >= len(s.Blocks) {
		return nil
	}
	return s.Blocks[i]
}

func LoadConstructionFile(filename string) (*Construction, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open construction")
	}
	defer file.Close()
	construction, err := LoadConstruction(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filename)
	}
	return construction, nil
}

func LoadConstruction(r io.ReadSeeker) (*Construction, error) {
	var magic [8]byte
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "read magic number")
	}
	if string(magic[:]) != constructionMagic {
		return nil, errors.New("invalid magic number")
	}
	if _, err := r.Seek(int64(-len(constructionMagic)), io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "seek trailer")
	}
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "read trailing magic number")
	}
	if string(magic[:]) != constructionMagic {
		return nil, errors.New("invalid trailing magic number")
	}

	if _, err := r.Seek(int64(-len(constructionMagic)-4), io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "seek metadata offset")
	}
	var metaDataOffset int32
	if err := binary.Read(r, binary.BigEndian, &metaDataOffset); err != nil {
		return nil, errors.Wrap(err, "read metadata offset")
	}
	if _, err := r.Seek(int64(metaDataOffset), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek metadata")
	}
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "metadata")
	}
	// the metadata member is followed by the trailer, not by another gzip member
	gzipReader.Multistream(false)
	var meta AmuletMetadata
	if _, err = nbt.NewDecoder(gzipReader).Decode(&meta); err != nil {
		return nil, errors.Wrap(err, "decode metadata")
	}

	sectionTable := decodeSectionTable(meta.SectionIndexTable)
	sections := make([]*ConstructionSection, len(sectionTable))
	for sIndex, section := range sectionTable {
		data, err := readSectionEntry(r, section)
		if err != nil {
			return nil, errors.Wrapf(err, "section %d", sIndex)
		}
		var info SectionBlockInfo
		if _, err = nbt.NewDecoder(bytes.NewReader(data)).Decode(&info); err != nil {
			return nil, errors.Wrapf(err, "section %d header", sIndex)
		}
		cSection := &ConstructionSection{
			ShapeX:    section.ShapeX,
			ShapeY:    section.ShapeY,
			ShapeZ:    section.ShapeZ,
			MinBlockX: section.MinBlockX,
			MinBlockY: section.MinBlockY,
			MinBlockZ: section.MinBlockZ,
		}
		switch info.BlocksArrayType {
		case 7:
			var decoded ByteSection
			if _, err = nbt.NewDecoder(bytes.NewReader(data)).Decode(&decoded); err != nil {
				return nil, errors.Wrapf(err, "section %d blocks", sIndex)
			}
			cSection.BlockEntities = decoded.BlockEntities
			cSection.Blocks, err = decodeBlocks(decoded.Blocks, meta.BlockPalette)
		case 11:
			var decoded IntSection
			if _, err = nbt.NewDecoder(bytes.NewReader(data)).Decode(&decoded); err != nil {
				return nil, errors.Wrapf(err, "section %d blocks", sIndex)
			}
			cSection.BlockEntities = decoded.BlockEntities
			cSection.Blocks, err = decodeBlocks(decoded.Blocks, meta.BlockPalette)
		default:
			err = errors.Errorf("unsupported blocks array type %d", info.BlocksArrayType)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "section %d", sIndex)
		}
		sections[sIndex] = cSection
	}
	util.LogIODebug(fmt.Sprintf("[Construction] %d sections, %d palette entries, created with %q", len(sections), len(meta.BlockPalette), meta.CreatedWith))
	return &Construction{Sections: sections}, nil
}

// readSectionEntry inflates one gzipped section entry.
func readSectionEntry(r io.ReadSeeker, section ConstructionEntry) ([]byte, error) {
	if _, err := r.Seek(int64(section.Offset), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek")
	}
	gzipReader, err := gzip.NewReader(io.LimitReader(r, int64(section.Size)))
	if err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	defer gzipReader.Close()
	data, err := io.ReadAll(gzipReader)
	return data, errors.Wrap(err, "inflate")
}

func decodeBlocks[T int32 | byte](blocks []T, palette []*BlockDefinition) ([]*BlockDefinition, error) {
	result := make([]*BlockDefinition, len(blocks))
	for i, block := range blocks {
		if int(block) < 0 || int(block) >= len(palette) {
			return nil, errors.Errorf("palette index %d out of range at block %d", block, i)
		}
		result[i] = palette[block]
	}
	return result, nil
}

/*
The section_index_table is an Mx23 TAG_Byte_Array where M is the number of section data entries present in the construction file.

The real format of the section_index_table is IIIBBBII where I is a uint32 and B is a uint8.

III: The X, Y, and Z block coordinates of the minimum point of the section
BBB: The shape of the section in blocks in X, Y, Z order
I: The starting byte of the section data entry in the file
I: The byte length of the section data entry
*/
type ConstructionEntry struct {
	MinBlockX int32
	MinBlockY int32
	MinBlockZ int32
	ShapeX    uint8
	ShapeY    uint8
	ShapeZ    uint8
	Offset    uint32
	Size      uint32
}

const sectionIndexSize = 23

func decodeSectionTable(table []byte) []ConstructionEntry {
	sectionCount := len(table) / sectionIndexSize
	sections := make([]ConstructionEntry, sectionCount)
	for i := 0; i < sectionCount; i++ {
		entry := table[i*sectionIndexSize : (i+1)*sectionIndexSize]
		sections[i].MinBlockX = int32(binary.LittleEndian.Uint32(entry[0:4]))
		sections[i].MinBlockY = int32(binary.LittleEndian.Uint32(entry[4:8]))
		sections[i].MinBlockZ = int32(binary.LittleEndian.Uint32(entry[8:12]))
		sections[i].ShapeX = entry[12]
		sections[i].ShapeY = entry[13]
		sections[i].ShapeZ = entry[14]
		sections[i].Offset = binary.LittleEndian.Uint32(entry[15:19])
		sections[i].Size = binary.LittleEndian.Uint32(entry[19:23])
	}
	return sections
}

func encodeSectionTable(sections []ConstructionEntry) []byte {
	table := make([]byte, len(sections)*sectionIndexSize)
	for i, s := range sections {
		entry := table[i*sectionIndexSize : (i+1)*sectionIndexSize]
		binary.LittleEndian.PutUint32(entry[0:4], uint32(s.MinBlockX))
		binary.LittleEndian.PutUint32(entry[4:8], uint32(s.MinBlockY))
		binary.LittleEndian.PutUint32(entry[8:12], uint32(s.MinBlockZ))
		entry[12], entry[13], entry[14] = s.ShapeX, s.ShapeY, s.ShapeZ
		binary.LittleEndian.PutUint32(entry[15:19], s.Offset)
		binary.LittleEndian.PutUint32(entry[19:23], s.Size)
	}
	return table
}

// ToVolume places the construction into a block volume whose origin is the
// minimum block of the construction. Block names are looked up in registry;
// names it does not know become air and are returned sorted.
func (c *Construction) ToVolume(registry *BlockRegistry) (*BlockVolume, []string, error) {
	if len(c.Sections) == 0 {
		return nil, nil, errors.New("construction has no sections")
	}
	minCorner := Int3{X: c.Sections[0].MinBlockX, Y: c.Sections[0].MinBlockY, Z: c.Sections[0].MinBlockZ}
	maxCorner := minCorner
	for _, s := range c.Sections {
		lo := Int3{X: s.MinBlockX, Y: s.MinBlockY, Z: s.MinBlockZ}
		hi := lo.Add(Int3{X: int32(s.ShapeX), Y: int32(s.ShapeY), Z: int32(s.ShapeZ)})
		minCorner = Int3{X: min(minCorner.X, lo.X), Y: min(minCorner.Y, lo.Y), Z: min(minCorner.Z, lo.Z)}
		maxCorner = Int3{X: max(maxCorner.X, hi.X), Y: max(maxCorner.Y, hi.Y), Z: max(maxCorner.Z, hi.Z)}
	}
	extent := maxCorner.Sub(minCorner)
	sectionsFor := func(blocks int32) int {
		return max(1, (int(blocks)+SECTION_SIZE-1)/SECTION_SIZE)
	}
	nx, ny, nz := sectionsFor(extent.X), sectionsFor(extent.Y), sectionsFor(extent.Z)
	if nx > MAX_GRID_SECTIONS || ny > MAX_GRID_SECTIONS || nz > MAX_GRID_SECTIONS || nx*ny*nz > MAX_GRID_SECTIONS {
		return nil, nil, errors.Errorf("construction spans %dx%dx%d sections, more than %d", nx, ny, nz, MAX_GRID_SECTIONS)
	}
	volume := NewBlockVolume(nx, ny, nz)

	unknown := map[string]bool{}
	for _, s := range c.Sections {
		origin := Int3{X: s.MinBlockX, Y: s.MinBlockY, Z: s.MinBlockZ}.Sub(minCorner)
		for x := 0; x < int(s.ShapeX); x++ {
			for y := 0; y < int(s.ShapeY); y++ {
				for z := 0; z < int(s.ShapeZ); z++ {
					def := s.BlockAt(x, y, z)
					if def == nil {
						continue
					}
					id, ok := registry.GetBlockByName(def.Name)
					if !ok {
						unknown[def.Name] = true
						continue
					}
					volume.SetBlock(int(origin.X)+x, int(origin.Y)+y, int(origin.Z)+z, id)
				}
			}
		}
	}
	names := make([]string, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		util.LogIOInfo(fmt.Sprintf("[Construction] %d unknown block names imported as air", len(names)))
	}
	return volume, names, nil
}
