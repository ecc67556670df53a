package voxel

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

const testAtlasIndex = `# terrain atlas
stone 0
grass_block_top 2
grass_block_side 3
grass_block_bottom 1
furnace_front 7
furnace_side 8
furnace_top 9
`

func TestReadAtlasIndex(t *testing.T) {
	index, err := ReadAtlasIndex(strings.NewReader(testAtlasIndex))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(index) != 7 || index["furnace_front"] != 7 {
		t.Fatalf("unexpected index %v", index)
	}

	var buf bytes.Buffer
	if err = index.WriteAtlasIndex(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	again, err := ReadAtlasIndex(&buf)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	for name, tile := range index {
		if again[name] != tile {
			t.Fatalf("%s: %d after rewrite, want %d", name, again[name], tile)
		}
	}

	if _, err = ReadAtlasIndex(strings.NewReader("stone zero\n")); err == nil {
		t.Fatalf("malformed line accepted")
	}
}

func TestMapFaceToTextureIndex(t *testing.T) {
	index, err := ReadAtlasIndex(strings.NewReader(testAtlasIndex))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tests := []struct {
		block string
		face  FaceType
		want  uint32
	}{
		{"stone", Top, 0},
		{"stone", North, 0},
		{"grass_block", Top, 2},
		{"grass_block", Bottom, 1},
		{"grass_block", East, 3},
		{"grass_block", North, 3},
		{"furnace", South, 7},
		{"furnace", West, 8},
		{"furnace", Top, 9},
		{"unknown", Top, 0},
	}
	for _, tt := range tests {
		if got := MapFaceToTextureIndex(tt.block, tt.face, index); got != tt.want {
			t.Fatalf("%s %s: tile %d, want %d", tt.block, tt.face, got, tt.want)
		}
	}
	names := TextureNamesFor("grass_block", index)
	if len(names) != 3 || names[0] != "grass_block_top" {
		t.Fatalf("texture names %v", names)
	}
}

func TestAtlasTileResolver(t *testing.T) {
	registry, err := NewBlockRegistry(BlockDef{ID: 3, Name: "grass_block", Opaque: true})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	index, _ := ReadAtlasIndex(strings.NewReader(testAtlasIndex))
	resolver := NewAtlasTileResolver(registry, index)
	if got := resolver.ResolveTile(3, Top); got != 2 {
		t.Fatalf("grass top tile %d, want 2", got)
	}
	if got := resolver.ResolveTile(3, ZP); got != 3 {
		t.Fatalf("grass side tile %d, want 3", got)
	}
}

type countingResolver struct {
	calls atomic.Int64
}

func (c *countingResolver) ResolveTile(id uint16, face FaceType) uint32 {
	c.calls.Add(1)
	return uint32(id)*8 + uint32(face)
}

func TestTileCacheConcurrentFirstInsert(t *testing.T) {
	resolver := &countingResolver{}
	cache := NewTileCache(resolver, 0)
	const ids = 50

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := uint16(1); id <= ids; id++ {
				for _, face := range AllFaces {
					if got := cache.ResolveTile(id, face); got != uint32(id)*8+uint32(face) {
						errs <- "wrong tile"
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatalf("%s", msg)
	}
	if cache.Len() != ids*6 {
		t.Fatalf("cache holds %d entries, want %d", cache.Len(), ids*6)
	}
	before := resolver.calls.Load()
	cache.ResolveTile(7, Top)
	if resolver.calls.Load() != before {
		t.Fatalf("cached lookup hit the resolver")
	}
}
