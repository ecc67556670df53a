package voxel

// VoxelDecoder yields the block id of a voxel during emission. It is either a
// constant id provider or a packed palette lookup, chosen once per emission call.
type VoxelDecoder struct {
	uniform uint16
	section *SectionVoxelData
}

func UniformDecoder(id uint16) VoxelDecoder {
	return VoxelDecoder{uniform: id}
}

func PackedDecoder(s *SectionVoxelData) VoxelDecoder {
	return VoxelDecoder{section: s}
}

// Uniform returns the constant id if every voxel decodes to the same block.
func (d VoxelDecoder) Uniform() (uint16, bool) {
	return d.uniform, d.section == nil
}

func (d VoxelDecoder) Decode(li int) uint16 {
	if d.section == nil {
		return d.uniform
	}
	return d.section.DecodeIndex(li)
}
