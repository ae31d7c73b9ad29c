package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/autolod/asset"
	"github.com/achilleasa/autolod/config"
	"github.com/achilleasa/autolod/lodgen"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/scenelod"
	"github.com/achilleasa/autolod/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Build the HLOD tree of a scene and fly a camera towards it while running the
// per-frame LOD selection.
func Simulate(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	applyOverrides(ctx, &cfg)
	if err = cfg.Validate(); err != nil {
		return err
	}

	stopMetrics := serveMetrics(cfg.MetricsAddr)
	defer stopMetrics()

	sc, imported, err := buildSimulationScene(ctx)
	if err != nil {
		return err
	}

	mgr := scenelod.New(sc, cfg, nil)
	defer mgr.Close()

	if ctx.Bool("generate-lods") {
		settings := lodgen.SettingsFromConfig(cfg)
		for _, obj := range imported {
			if err = mgr.GenerateLODs(obj, settings); err != nil {
				return err
			}
		}
	}

	start := time.Now()
	mgr.Activate()
	if !mgr.Flush(ctx.Duration("timeout")) {
		return fmt.Errorf("HLOD tree not ready after %s; %d tasks pending", ctx.Duration("timeout"), mgr.Progress().QueueRemaining)
	}
	root := mgr.Root()
	if root == nil {
		return errors.New("no renderers were indexed")
	}
	logger.Noticef("indexed %d renderers in %d ms", mgr.Indexed(), time.Since(start).Nanoseconds()/1e6)

	if err = flyThrough(ctx.Int("frames"), sc, mgr, root.Bounds); err != nil {
		return err
	}
	logger.Noticef("HLOD stats:\n%s", mgr.Stats())

	if out := ctx.String("out"); out != "" {
		path, err := mgr.Save(out)
		if err != nil {
			return err
		}
		logger.Noticef("wrote HLOD mesh archive to %s", path)
	}
	return nil
}

func applyOverrides(ctx *cli.Context, cfg *config.Config) {
	if ctx.IsSet("budget") {
		cfg.MaxExecutionTime = config.Duration(ctx.Duration("budget"))
	}
	if ctx.IsSet("workers") {
		cfg.WorkerCount = ctx.Int("workers")
	}
	if ctx.IsSet("simplifier") {
		cfg.MeshSimplifier = ctx.String("simplifier")
	}
	if ctx.IsSet("batcher") {
		cfg.Batcher = ctx.String("batcher")
	}
	if ctx.IsSet("max-lod") {
		cfg.MaxLOD = ctx.Int("max-lod")
	}
	if ctx.IsSet("standalone") {
		cfg.IndexStandaloneRenderers = ctx.Bool("standalone")
	}
}

// buildSimulationScene loads the wavefront files passed as arguments or, when
// none are given, generates a grid of cubes. The top level objects are
// returned.
func buildSimulationScene(ctx *cli.Context) (*scene.Scene, []*scene.Object, error) {
	if ctx.NArg() == 0 {
		sc := scene.New("grid")
		return sc, buildGrid(sc, ctx.Int("grid"), float32(ctx.Float64("spacing")), ctx.Int("materials")), nil
	}

	sc := scene.New(strings.TrimSuffix(filepath.Base(ctx.Args().First()), filepath.Ext(ctx.Args().First())))
	var imported []*scene.Object
	for _, file := range ctx.Args() {
		start := time.Now()
		objects, err := asset.ReadWavefrontFile(file)
		if err != nil {
			return nil, nil, err
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		root := sc.NewObject(name, nil)
		asset.AddToScene(sc, root, objects)
		imported = append(imported, root)
		logger.Noticef("loaded %q (%d objects) in %d ms", file, len(objects), time.Since(start).Nanoseconds()/1e6)
	}
	return sc, imported, nil
}

// buildGrid places n*n*n unit cubes spaced apart on each axis. Materials are
// assigned round-robin.
func buildGrid(sc *scene.Scene, n int, spacing float32, materialCount int) []*scene.Object {
	if materialCount < 1 {
		materialCount = 1
	}
	materials := make([]*scene.Material, materialCount)
	for i := range materials {
		materials[i] = scene.NewMaterial(fmt.Sprintf("material %d", i))
	}

	var objects []*scene.Object
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				obj := sc.NewObject(fmt.Sprintf("cube %d_%d_%d", i, j, k), nil)
				obj.SetPosition(types.XYZ(float32(i)*spacing, float32(j)*spacing, float32(k)*spacing))
				obj.AddRenderer(scene.NewCubeMesh("cube", 1), materials[len(objects)%materialCount])
				objects = append(objects, obj)
			}
		}
	}
	logger.Noticef("generated %d cubes", len(objects))
	return objects
}

// flyThrough moves the camera from far away towards the center of bounds and
// tabulates what the selector enables at every frame.
func flyThrough(frames int, sc *scene.Scene, mgr *scenelod.Manager, bounds types.Bounds) error {
	if frames < 2 {
		frames = 2
	}
	cam := scene.NewCamera(60)
	cam.LookAt = bounds.Center
	far := bounds.MaxSide() * 50

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Frame", "Distance", "Renderers visible", "Proxies visible", "Tick"})

	for frame := 0; frame < frames; frame++ {
		distance := far * (1 - float32(frame)/float32(frames-1))
		cam.Position = bounds.Center.Add(types.XYZ(0, 0, distance+bounds.Extents[2]))

		mgr.Tick()
		mgr.PreCull(cam)

		var renderers, proxies int
		for _, r := range sc.Renderers() {
			if !r.Enabled() {
				continue
			}
			if r.OnHLODLayer() {
				proxies++
			} else {
				renderers++
			}
		}
		table.Append([]string{
			fmt.Sprint(frame), fmt.Sprintf("%.1f", distance), fmt.Sprint(renderers), fmt.Sprint(proxies),
			mgr.Progress().LastTickTime.String(),
		})
	}
	table.Render()

	logger.Noticef("camera fly-through:\n%s", buf.String())
	return nil
}
