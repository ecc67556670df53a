package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/memmaker/voxelmesh/engine/util"
)

func main() {
	var (
		configFile = flag.String("config", "mesher.yaml", "mesher config file")
		workers    = flag.Int("workers", -1, "worker count, overrides the config (0 = one per CPU)")
		demo       = flag.Bool("demo", false, "write a demo grid to grid_file before meshing")
		importFile = flag.String("import", "", "convert an Amulet .construction file into grid_file before meshing")
	)
	flag.Parse()

	cfg, err := util.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxelmesh: %v\n", err)
		os.Exit(1)
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if err = cfg.ApplyLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "voxelmesh: %v\n", err)
		os.Exit(1)
	}

	if *demo {
		if err = writeDemoGrid(cfg); err != nil {
			util.LogSystemError(fmt.Sprintf("[Mesher] writing demo grid: %v", err))
			os.Exit(1)
		}
		util.LogSystemInfo("[Mesher] demo grid written to " + cfg.GridFile)
	}

	if *importFile != "" {
		if err = importConstruction(cfg, *importFile); err != nil {
			util.LogSystemError(fmt.Sprintf("[Mesher] importing %s: %v", *importFile, err))
			os.Exit(1)
		}
		util.LogSystemInfo("[Mesher] imported " + *importFile + " into " + cfg.GridFile)
	}

	report, err := runMesher(cfg)
	if err != nil {
		util.LogSystemError(fmt.Sprintf("[Mesher] %v", err))
		os.Exit(1)
	}
	printReport(os.Stdout, report)
}
