package voxel

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BlockClassifier tells the mesher which block ids hide their neighbors.
type BlockClassifier interface {
	IsOpaque(id uint16) bool
}

type BlockDef struct {
	ID     uint16 `yaml:"id"`
	Name   string `yaml:"name"`
	Opaque bool   `yaml:"opaque"`
}

type BlockRegistry struct {
	defs   map[uint16]BlockDef
	byName map[string]uint16
	opaque []bool
}

func NewBlockRegistry(defs ...BlockDef) (*BlockRegistry, error) {
	r := &BlockRegistry{
		defs:   make(map[uint16]BlockDef, len(defs)+1),
		byName: make(map[string]uint16, len(defs)+1),
	}
	r.defs[AIR] = BlockDef{ID: AIR, Name: "air"}
	r.byName["air"] = AIR
	for _, def := range defs {
		if def.ID == AIR {
			return nil, errors.Errorf("block %q: id 0 is reserved for air", def.Name)
		}
		if _, exists := r.defs[def.ID]; exists {
			return nil, errors.Errorf("block %q: duplicate id %d", def.Name, def.ID)
		}
		if def.Name == "" {
			return nil, errors.Errorf("block id %d has no name", def.ID)
		}
		r.defs[def.ID] = def
		r.byName[def.Name] = def.ID
	}
	r.buildOpaqueTable()
	return r, nil
}

type blocksFile struct {
	Blocks []BlockDef `yaml:"blocks"`
}

// LoadBlockRegistry reads block definitions from a yaml file of the form
//
//	blocks:
//	  - {id: 1, name: stone, opaque: true}
func LoadBlockRegistry(filename string) (*BlockRegistry, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read block registry")
	}
	var file blocksFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	registry, err := NewBlockRegistry(file.Blocks...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", filename)
	}
	return registry, nil
}

// the opaque lookup is a flat table so the emission loops never touch the map
func (r *BlockRegistry) buildOpaqueTable() {
	maxID := 0
	for id := range r.defs {
		if int(id) > maxID {
			maxID = int(id)
		}
	}
	r.opaque = make([]bool, maxID+1)
	for id, def := range r.defs {
		r.opaque[id] = def.Opaque && id != AIR
	}
}

func (r *BlockRegistry) IsOpaque(id uint16) bool {
	return int(id) < len(r.opaque) && r.opaque[id]
}

func (r *BlockRegistry) IsAir(id uint16) bool {
	return id == AIR
}

func (r *BlockRegistry) Name(id uint16) string {
	if def, ok := r.defs[id]; ok {
		return def.Name
	}
	return ""
}

func (r *BlockRegistry) GetBlockByName(name string) (uint16, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// IDs returns every registered non air id in ascending order.
func (r *BlockRegistry) IDs() []uint16 {
	ids := make([]uint16, 0, len(r.defs))
	for id := range r.defs {
		if id != AIR {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
