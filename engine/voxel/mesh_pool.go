package voxel

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/memmaker/voxelmesh/engine/util"
)

// GridMesh is the merged output of meshing a whole grid. Instances appear in
// section index order, so the result does not depend on worker scheduling.
type GridMesh struct {
	Opaque      *InstanceBuffer
	Transparent *InstanceBuffer
	Stats       MeshStats
	Sections    int
	Skipped     int
}

type sectionResult struct {
	opaque      *InstanceBuffer
	transparent *InstanceBuffer
	stats       MeshStats
	ok          bool
}

// MeshGrid meshes every section of grid with a fixed pool of workers. Each
// worker owns a SectionMesher and fresh buffers per section; tiles is shared
// and has to be safe for concurrent use (see TileCache). workers <= 0 uses
// one worker per CPU. The optional timer records the "mesh_section" stage.
func MeshGrid(grid *SectionGrid, tiles TileResolver, workers int, timer *util.Timer) *GridMesh {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	count := grid.SectionCount()
	if workers > count {
		workers = count
	}
	results := make([]sectionResult, count)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mesher := NewSectionMesher(grid, tiles)
			for i := range jobs {
				results[i] = meshOne(mesher, i, timer)
			}
		}()
	}
	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	mesh := &GridMesh{
		Opaque:      NewInstanceBuffer(0),
		Transparent: NewInstanceBuffer(0),
	}
	opaqueTotal, transparentTotal := 0, 0
	for _, r := range results {
		opaqueTotal += r.stats.OpaqueFaces
		transparentTotal += r.stats.TransparentFaces
	}
	mesh.Opaque.Grow(opaqueTotal)
	mesh.Transparent.Grow(transparentTotal)
	for _, r := range results {
		if !r.ok {
			mesh.Skipped++
			continue
		}
		mesh.Sections++
		mesh.Stats.Add(r.stats)
		mesh.Opaque.Merge(r.opaque)
		mesh.Transparent.Merge(r.transparent)
	}
	util.LogMeshInfo(fmt.Sprintf("[MeshGrid] %d sections meshed, %d skipped, %d opaque / %d transparent faces (%d workers)",
		mesh.Sections, mesh.Skipped, mesh.Stats.OpaqueFaces, mesh.Stats.TransparentFaces, workers))
	return mesh
}

func meshOne(mesher *SectionMesher, i int, timer *util.Timer) sectionResult {
	if timer != nil {
		defer timer.Start("mesh_section")()
	}
	sx, sy, sz := mesher.Grid().SectionCoords(i)
	r := sectionResult{
		opaque:      NewInstanceBuffer(0),
		transparent: NewInstanceBuffer(0),
	}
	r.stats, r.ok = mesher.EmitSection(sx, sy, sz, r.opaque, r.transparent)
	if !r.ok {
		util.LogMeshWarning(fmt.Sprintf("[MeshGrid] section (%d,%d,%d) not meshable", sx, sy, sz))
	} else if r.stats.Total() > 0 {
		util.LogMeshDebug(fmt.Sprintf("[MeshGrid] section (%d,%d,%d): %d opaque, %d transparent", sx, sy, sz, r.stats.OpaqueFaces, r.stats.TransparentFaces))
	}
	return r
}
