package voxel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// TileResolver maps a block face to a tile of the terrain atlas.
type TileResolver interface {
	ResolveTile(id uint16, face FaceType) uint32
}

// NameIndex maps texture names (block name plus optional face suffix) to atlas tiles.
type NameIndex map[string]uint32

func (i NameIndex) WriteAtlasIndex(w io.Writer) error {
	names := make([]string, 0, len(i))
	for name := range i {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s %d\n", name, i[name]); err != nil {
			return errors.Wrap(err, "write atlas index")
		}
	}
	return nil
}

// ReadAtlasIndex parses "name tile" lines. Blank lines and lines starting
// with # are skipped.
func ReadAtlasIndex(r io.Reader) (NameIndex, error) {
	indices := NameIndex{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var name string
		var tile uint32
		if _, err := fmt.Sscanf(line, "%s %d", &name, &tile); err != nil {
			return nil, errors.Wrapf(err, "atlas index line %d", lineNo)
		}
		indices[name] = tile
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read atlas index")
	}
	return indices, nil
}

func NewNameIndexFromFile(filename string) (NameIndex, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open atlas index")
	}
	defer file.Close()
	return ReadAtlasIndex(file)
}

func getMCSuffixes() []string {
	return []string{"_top", "_bottom", "_side", "_sides", "_front", "_back", "_side1", "_side2", "_side3"}
}

func faceSuffixCandidates(face FaceType) []string {
	switch face {
	case Top:
		return []string{"_top"}
	case Bottom:
		return []string{"_bottom"}
	case North:
		return []string{"_back", "_side2", "_side", "_sides"}
	case South:
		return []string{"_front", "_side", "_sides"}
	case East:
		return []string{"_side3", "_side", "_sides"}
	case West:
		return []string{"_side1", "_side", "_sides"}
	}
	return nil
}

// MapFaceToTextureIndex picks the most specific texture a block has for a face
// and falls back to the plain block name.
func MapFaceToTextureIndex(blockName string, face FaceType, available NameIndex) uint32 {
	for _, suffix := range faceSuffixCandidates(face) {
		if tile, ok := available[blockName+suffix]; ok {
			return tile
		}
	}
	return available[blockName]
}

// TextureNamesFor lists the atlas entries a block could use, plain name first.
func TextureNamesFor(blockName string, available NameIndex) []string {
	var result []string
	if _, ok := available[blockName]; ok {
		result = append(result, blockName)
	}
	for _, suffix := range getMCSuffixes() {
		if _, ok := available[blockName+suffix]; ok {
			result = append(result, blockName+suffix)
		}
	}
	return result
}

type AtlasTileResolver struct {
	registry *BlockRegistry
	index    NameIndex
}

func NewAtlasTileResolver(registry *BlockRegistry, index NameIndex) *AtlasTileResolver {
	return &AtlasTileResolver{registry: registry, index: index}
}

func (a *AtlasTileResolver) ResolveTile(id uint16, face FaceType) uint32 {
	return MapFaceToTextureIndex(a.registry.Name(id), face, a.index)
}
