package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/memmaker/voxelmesh/engine/util"
	"github.com/memmaker/voxelmesh/engine/voxel"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

type meshReport struct {
	gridFile    string
	dimensions  [3]int
	mesh        *voxel.GridMesh
	cachedTiles int
	timer       *util.Timer
}

func runMesher(cfg util.MesherConfig) (*meshReport, error) {
	timer := util.NewTimer()

	stop := timer.Start("load")
	registry, err := voxel.LoadBlockRegistry(cfg.BlocksFile)
	if err != nil {
		return nil, err
	}
	index := voxel.NameIndex{}
	if cfg.AtlasIndexFile != "" {
		if index, err = voxel.NewNameIndexFromFile(cfg.AtlasIndexFile); err != nil {
			return nil, err
		}
	} else {
		util.LogConfigWarning("[Mesher] no atlas index configured, every face uses tile 0")
	}
	grid, err := voxel.LoadGridFile(cfg.GridFile, registry)
	if err != nil {
		return nil, err
	}
	stop()

	tiles := voxel.NewTileCache(voxel.NewAtlasTileResolver(registry, index), cfg.TileCacheHint)
	stop = timer.Start("mesh")
	mesh := voxel.MeshGrid(grid, tiles, cfg.Workers, timer)
	stop()

	sx, sy, sz := grid.Dimensions()
	return &meshReport{
		gridFile:    cfg.GridFile,
		dimensions:  [3]int{sx, sy, sz},
		mesh:        mesh,
		cachedTiles: tiles.Len(),
		timer:       timer,
	}, nil
}

// writeDemoGrid stores a small two section test scene: a stone floor, a glass
// box on top of it and a patch of water next to the box.
func writeDemoGrid(cfg util.MesherConfig) error {
	registry, err := voxel.LoadBlockRegistry(cfg.BlocksFile)
	if err != nil {
		return err
	}
	ids := make(map[string]uint16)
	for _, name := range []string{"stone", "glass", "water"} {
		id, ok := registry.GetBlockByName(name)
		if !ok {
			return errors.Errorf("demo grid needs block %q in %s", name, cfg.BlocksFile)
		}
		ids[name] = id
	}
	volume := voxel.NewBlockVolume(2, 1, 1)
	volume.Fill(voxel.Int3{X: 0, Y: 0, Z: 0}, voxel.Int3{X: 31, Y: 0, Z: 15}, ids["stone"])
	volume.Fill(voxel.Int3{X: 4, Y: 1, Z: 4}, voxel.Int3{X: 8, Y: 5, Z: 8}, ids["glass"])
	volume.Fill(voxel.Int3{X: 12, Y: 1, Z: 2}, voxel.Int3{X: 20, Y: 2, Z: 12}, ids["water"])
	return voxel.SaveGridFile(cfg.GridFile, volume.Build(registry))
}

// importConstruction converts an Amulet construction into the configured grid file.
func importConstruction(cfg util.MesherConfig, filename string) error {
	registry, err := voxel.LoadBlockRegistry(cfg.BlocksFile)
	if err != nil {
		return err
	}
	construction, err := voxel.LoadConstructionFile(filename)
	if err != nil {
		return err
	}
	volume, unknown, err := construction.ToVolume(registry)
	if err != nil {
		return errors.Wrapf(err, "import %s", filename)
	}
	for _, name := range unknown {
		util.LogIOInfo("[Mesher] unknown block imported as air: " + name)
	}
	return voxel.SaveGridFile(cfg.GridFile, volume.Build(registry))
}

func printReport(out io.Writer, report *meshReport) {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		printTable(out, report)
		return
	}
	printKeyValues(out, report)
}

func printTable(out io.Writer, report *meshReport) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "grid\t%s\n", report.gridFile)
	fmt.Fprintf(w, "sections\t%dx%dx%d (%d meshed, %d skipped)\n", report.dimensions[0], report.dimensions[1], report.dimensions[2], report.mesh.Sections, report.mesh.Skipped)
	fmt.Fprintf(w, "opaque faces\t%d\n", report.mesh.Stats.OpaqueFaces)
	fmt.Fprintf(w, "transparent faces\t%d\n", report.mesh.Stats.TransparentFaces)
	fmt.Fprintf(w, "cached tiles\t%d\n", report.cachedTiles)
	for _, state := range report.timer.States() {
		fmt.Fprintf(w, "%s\t%d runs, %.2fms\n", state.Name(), state.Count(), state.Total())
	}
	w.Flush()
}

func printKeyValues(out io.Writer, report *meshReport) {
	fmt.Fprintf(out, "grid=%s\n", report.gridFile)
	fmt.Fprintf(out, "sections=%dx%dx%d\n", report.dimensions[0], report.dimensions[1], report.dimensions[2])
	fmt.Fprintf(out, "meshed=%d\n", report.mesh.Sections)
	fmt.Fprintf(out, "skipped=%d\n", report.mesh.Skipped)
	fmt.Fprintf(out, "opaque_faces=%d\n", report.mesh.Stats.OpaqueFaces)
	fmt.Fprintf(out, "transparent_faces=%d\n", report.mesh.Stats.TransparentFaces)
	fmt.Fprintf(out, "cached_tiles=%d\n", report.cachedTiles)
	for _, state := range report.timer.States() {
		fmt.Fprintf(out, "time_%s_ms=%.2f\n", state.Name(), state.Total())
	}
}
