package voxel

import (
	"math/rand"
	"testing"
)

func TestShiftAcrossWordBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		right  bool
		stride int
		from   int
		to     int // -1 if the bit is dropped
	}{
		{"y right into next word", true, STRIDE_Y, 63, 64},
		{"y left into previous word", false, STRIDE_Y, 64, 63},
		{"x right", true, STRIDE_X, 60, 76},
		{"x left", false, STRIDE_X, 70, 54},
		{"z right whole words", true, STRIDE_Z, 10, 266},
		{"z left whole words", false, STRIDE_Z, 300, 44},
		{"right past the end", true, STRIDE_Y, SECTION_VOLUME - 1, -1},
		{"left past the start", false, STRIDE_X, 5, -1},
		{"z right past the end", true, STRIDE_Z, SECTION_VOLUME - 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var src, dst Bitset
			src.Set(tt.from)
			if tt.right {
				ShiftRight(&dst, &src, tt.stride)
			} else {
				ShiftLeft(&dst, &src, tt.stride)
			}
			if tt.to < 0 {
				if !dst.IsEmpty() {
					t.Fatalf("expected empty set, got %d bits", dst.PopCount())
				}
				return
			}
			if dst.PopCount() != 1 || !dst.Has(tt.to) {
				t.Fatalf("expected only bit %d, got %d bits (has=%v)", tt.to, dst.PopCount(), dst.Has(tt.to))
			}
		})
	}
}

func TestShiftInPlace(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var src Bitset
	for i := range src {
		src[i] = rng.Uint64()
	}
	for _, stride := range []int{STRIDE_Y, STRIDE_X, STRIDE_Z} {
		var want Bitset
		ShiftRight(&want, &src, stride)
		got := src
		ShiftRight(&got, &got, stride)
		if got != want {
			t.Fatalf("in place ShiftRight by %d differs", stride)
		}
		ShiftLeft(&want, &src, stride)
		got = src
		ShiftLeft(&got, &got, stride)
		if got != want {
			t.Fatalf("in place ShiftLeft by %d differs", stride)
		}
	}
}

func TestShiftMatchesIndexArithmetic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var src Bitset
	for li := 0; li < SECTION_VOLUME; li++ {
		if rng.Intn(3) == 0 {
			src.Set(li)
		}
	}
	for _, stride := range []int{STRIDE_Y, STRIDE_X, STRIDE_Z} {
		var right, left Bitset
		ShiftRight(&right, &src, stride)
		ShiftLeft(&left, &src, stride)
		for li := 0; li < SECTION_VOLUME; li++ {
			wantRight := li-stride >= 0 && src.Has(li-stride)
			if right.Has(li) != wantRight {
				t.Fatalf("ShiftRight(%d) bit %d = %v, want %v", stride, li, right.Has(li), wantRight)
			}
			wantLeft := li+stride < SECTION_VOLUME && src.Has(li+stride)
			if left.Has(li) != wantLeft {
				t.Fatalf("ShiftLeft(%d) bit %d = %v, want %v", stride, li, left.Has(li), wantLeft)
			}
		}
	}
}

func TestBitsetForEachOrder(t *testing.T) {
	var b Bitset
	for _, li := range []int{4000, 3, 64, 65, 1} {
		b.Set(li)
	}
	var got []int
	b.ForEach(func(li int) { got = append(got, li) })
	want := []int{1, 3, 64, 65, 4000}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	b.Clear(64)
	if b.Has(64) || b.PopCount() != 4 {
		t.Fatalf("clear failed")
	}
}

// Away from the section edges every face bit must match a direct neighbor test.
func TestInternalFaceMasksInterior(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var occ Bitset
	for li := 0; li < SECTION_VOLUME; li++ {
		if rng.Intn(2) == 0 {
			occ.Set(li)
		}
	}
	var faces FaceMasks
	BuildInternalFaceMasks(&occ, &faces)
	for li := 0; li < SECTION_VOLUME; li++ {
		lx, ly, lz := LocalCoords(li)
		for _, face := range AllFaces {
			n := face.Normal()
			nx, ny, nz := lx+int(n.X), ly+int(n.Y), lz+int(n.Z)
			if nx < 0 || ny < 0 || nz < 0 || nx >= SECTION_SIZE || ny >= SECTION_SIZE || nz >= SECTION_SIZE {
				continue
			}
			want := occ.Has(li) && !occ.Has(LocalIndex(nx, ny, nz))
			if faces[face].Has(li) != want {
				t.Fatalf("voxel (%d,%d,%d) face %s = %v, want %v", lx, ly, lz, face, faces[face].Has(li), want)
			}
		}
	}
}

func TestBoundsMask(t *testing.T) {
	b := LocalBounds{MinX: 2, MaxX: 4, MinY: 0, MaxY: 15, MinZ: 7, MaxZ: 7}
	mask := BoundsMask(b)
	if mask.PopCount() != 3*16*1 {
		t.Fatalf("expected %d bits, got %d", 3*16, mask.PopCount())
	}
	for li := 0; li < SECTION_VOLUME; li++ {
		lx, ly, lz := LocalCoords(li)
		if mask.Has(li) != b.Contains(lx, ly, lz) {
			t.Fatalf("voxel (%d,%d,%d) mask=%v", lx, ly, lz, mask.Has(li))
		}
	}
	full := BoundsMask(FullBounds)
	if full.PopCount() != SECTION_VOLUME {
		t.Fatalf("full bounds mask has %d bits", full.PopCount())
	}
	empty := BoundsMask(LocalBounds{MinX: 1, MaxX: 0})
	if !empty.IsEmpty() {
		t.Fatalf("inverted bounds should be empty")
	}
}

func BenchmarkBuildInternalFaceMasks(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	var occ Bitset
	for i := range occ {
		occ[i] = rng.Uint64()
	}
	var faces FaceMasks
	for i := 0; i < b.N; i++ {
		BuildInternalFaceMasks(&occ, &faces)
	}
}

func TestEdgeLayers(t *testing.T) {
	for _, face := range AllFaces {
		edge := EdgeLayer(face)
		if n := edge.PopCount(); n != 256 {
			t.Fatalf("%s edge layer has %d cells", face, n)
		}
		edge.ForEach(func(li int) {
			lx, ly, lz := LocalCoords(li)
			n := face.Normal()
			if (n.X < 0 && lx != 0) || (n.X > 0 && lx != 15) ||
				(n.Y < 0 && ly != 0) || (n.Y > 0 && ly != 15) ||
				(n.Z < 0 && lz != 0) || (n.Z > 0 && lz != 15) {
				t.Fatalf("%s edge layer holds (%d,%d,%d)", face, lx, ly, lz)
			}
		})
		var outward Bitset
		shiftTowardNeighbor(&outward, edge, face)
		outward.And(edge)
		if !outward.IsEmpty() {
			t.Fatalf("%s edge layer is not a single plane", face)
		}
	}
}
