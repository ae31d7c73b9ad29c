package main

import (
	"os"
	"time"

	"github.com/achilleasa/autolod/cmd"
	"github.com/urfave/cli"

	_ "github.com/achilleasa/autolod/batcher"
	_ "github.com/achilleasa/autolod/simplifier"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	pipelineFlags := []cli.Flag{
		cli.DurationFlag{
			Name:  "budget",
			Usage: "per-frame time budget for tree maintenance",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of background simplification workers",
		},
		cli.StringFlag{
			Name:  "simplifier",
			Usage: "mesh simplifier plugin ID",
		},
		cli.StringFlag{
			Name:  "batcher",
			Usage: "batcher plugin ID",
		},
		cli.IntFlag{
			Name:  "max-lod",
			Usage: "number of LOD levels to generate below LOD0",
		},
	}

	app := cli.NewApp()
	app.Name = "autolod"
	app.Usage = "build hierarchical LOD trees for scenes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a TOML file",
		},
		cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "serve prometheus metrics on this address",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "simulate",
			Usage: "build the HLOD tree of a scene and run LOD selection",
			Description: `
Load one or more wavefront obj files into a scene, or generate a grid of cubes
when no files are given, and build its volume tree and HLOD proxies.

A camera then flies from far away towards the scene center and the renderers
and proxies enabled at every frame are reported. The generated proxy meshes
can be written to a zip archive with --out.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "grid",
					Value: 8,
					Usage: "cubes per axis for the generated scene",
				},
				cli.Float64Flag{
					Name:  "spacing",
					Value: 2.5,
					Usage: "distance between generated cubes",
				},
				cli.IntFlag{
					Name:  "materials",
					Value: 1,
					Usage: "number of materials assigned to generated cubes",
				},
				cli.BoolFlag{
					Name:  "standalone",
					Usage: "index renderers that are not part of a LOD group",
				},
				cli.BoolFlag{
					Name:  "generate-lods",
					Usage: "generate LOD chains for the loaded objects first",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 10,
					Usage: "number of camera fly-through frames",
				},
				cli.DurationFlag{
					Name:  "timeout",
					Value: time.Minute,
					Usage: "maximum time to wait for the tree to be built",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "write the HLOD mesh archive to this folder",
				},
			}, pipelineFlags...),
			Action: cmd.Simulate,
		},
		{
			Name:  "generate-lods",
			Usage: "generate LOD chains for wavefront assets",
			Description: `
Simplify the meshes of each asset into a LOD chain and record the result in a
YAML LOD store. Per-asset settings found in the store override the defaults
when their override flag is set.

With --watch the assets are regenerated whenever the store is edited.`,
			ArgsUsage: "asset1.obj asset2.obj ...",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "store, s",
					Value: "lods.yaml",
					Usage: "LOD store file",
				},
				cli.BoolFlag{
					Name:  "watch, w",
					Usage: "regenerate when the LOD store changes",
				},
			}, pipelineFlags...),
			Action: cmd.GenerateLODs,
		},
		{
			Name:      "inspect",
			Usage:     "list the meshes of an HLOD mesh archive",
			ArgsUsage: "scene_HLOD.zip",
			Action:    cmd.Inspect,
		},
		{
			Name:   "list-plugins",
			Usage:  "list registered mesh simplifiers and batchers",
			Action: cmd.ListPlugins,
		},
	}

	app.Run(os.Args)
}
