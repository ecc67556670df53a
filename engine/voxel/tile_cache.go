package voxel

import "sync"

// TileCache memoizes a TileResolver. It is shared by all meshing workers;
// concurrent misses for the same key resolve to the same tile, so a lost
// insertion race is harmless.
type TileCache struct {
	resolver TileResolver
	mu       sync.RWMutex
	tiles    map[uint32]uint32
}

func NewTileCache(resolver TileResolver, sizeHint int) *TileCache {
	return &TileCache{
		resolver: resolver,
		tiles:    make(map[uint32]uint32, sizeHint),
	}
}

func tileKey(id uint16, face FaceType) uint32 {
	return uint32(id)<<3 | uint32(face)
}

func (c *TileCache) ResolveTile(id uint16, face FaceType) uint32 {
	key := tileKey(id, face)
	c.mu.RLock()
	tile, ok := c.tiles[key]
	c.mu.RUnlock()
	if ok {
		return tile
	}
	tile = c.resolver.ResolveTile(id, face)
	c.mu.Lock()
	if existing, ok := c.tiles[key]; ok {
		tile = existing
	} else {
		c.tiles[key] = tile
	}
	c.mu.Unlock()
	return tile
}

func (c *TileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tiles)
}
