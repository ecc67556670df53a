package voxel

import "math/bits"

// Bitset holds one bit per voxel of a section, addressed by LocalIndex.
// Bit li lives in word li>>6 at position li&63.
type Bitset [MASK_WORDS]uint64

func (b *Bitset) Set(li int) {
	b[li>>6] |= 1 << uint(li&63)
}

func (b *Bitset) Clear(li int) {
	b[li>>6] &^= 1 << uint(li&63)
}

func (b *Bitset) Has(li int) bool {
	return b[li>>6]&(1<<uint(li&63)) != 0
}

func (b *Bitset) Reset() {
	*b = Bitset{}
}

func (b *Bitset) IsEmpty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b *Bitset) PopCount() int {
	c := 0
	for _, w := range b {
		c += bits.OnesCount64(w)
	}
	return c
}

func (b *Bitset) And(o *Bitset) {
	for i := range b {
		b[i] &= o[i]
	}
}

func (b *Bitset) AndNot(o *Bitset) {
	for i := range b {
		b[i] &^= o[i]
	}
}

func (b *Bitset) Or(o *Bitset) {
	for i := range b {
		b[i] |= o[i]
	}
}

func (b *Bitset) Overlaps(o *Bitset) bool {
	for i := range b {
		if b[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

// ForEach calls fn for every set bit in ascending index order.
func (b *Bitset) ForEach(fn func(li int)) {
	for w := 0; w < MASK_WORDS; w++ {
		word := b[w]
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &= word - 1
			fn(w<<6 + bit)
		}
	}
}

// ShiftRight moves every bit of src from index i to index i+stride and stores
// the result in dst. Vacated low indices are zero, bits pushed past the last
// voxel are dropped. dst and src may be the same set.
//
// With this convention dst[li] == src[li-stride], so shifting by an axis stride
// lines every voxel up with its neighbor on the negative side of that axis.
func ShiftRight(dst, src *Bitset, stride int) {
	if stride <= 0 {
		*dst = *src
		return
	}
	wordShift := stride >> 6
	bitShift := uint(stride & 63)
	for i := MASK_WORDS - 1; i >= 0; i-- {
		s := i - wordShift
		var v uint64
		if s >= 0 {
			v = src[s] << bitShift
			if bitShift != 0 && s > 0 {
				v |= src[s-1] >> (64 - bitShift)
			}
		}
		dst[i] = v
	}
}

// ShiftLeft moves every bit of src from index i to index i-stride, so that
// dst[li] == src[li+stride]: the neighbor on the positive side of the axis.
func ShiftLeft(dst, src *Bitset, stride int) {
	if stride <= 0 {
		*dst = *src
		return
	}
	wordShift := stride >> 6
	bitShift := uint(stride & 63)
	for i := 0; i < MASK_WORDS; i++ {
		s := i + wordShift
		var v uint64
		if s < MASK_WORDS {
			v = src[s] >> bitShift
			if bitShift != 0 && s+1 < MASK_WORDS {
				v |= src[s+1] << (64 - bitShift)
			}
		}
		dst[i] = v
	}
}

// shiftTowardNeighbor aligns every voxel with its neighbor in direction face.
func shiftTowardNeighbor(dst, src *Bitset, face FaceType) {
	if face.IsNegative() {
		ShiftRight(dst, src, face.stride())
	} else {
		ShiftLeft(dst, src, face.stride())
	}
}
