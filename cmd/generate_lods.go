package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/achilleasa/autolod/asset"
	"github.com/achilleasa/autolod/async"
	"github.com/achilleasa/autolod/config"
	"github.com/achilleasa/autolod/lodgen"
	"github.com/achilleasa/autolod/registry"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/task"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Generate LOD chains for wavefront assets and record them in the LOD store.
func GenerateLODs(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	applyOverrides(ctx, &cfg)

	if ctx.NArg() == 0 {
		return errors.New("missing asset files")
	}
	assets := []string(ctx.Args())

	store, err := lodgen.LoadStore(ctx.String("store"))
	if err != nil {
		return err
	}
	defaults := lodgen.SettingsFromConfig(cfg)

	if err = generateAll(store, assets, defaults, cfg.WorkerCount); err != nil {
		return err
	}
	if err = store.Save(); err != nil {
		return err
	}
	logger.Noticef("updated LOD store %s", store.Path())

	if !ctx.Bool("watch") {
		return nil
	}
	return watchStore(store.Path(), assets, defaults, cfg.WorkerCount)
}

// watchStore regenerates the assets whenever the store is edited until the
// process is interrupted. Regenerated chains are reported but not written
// back so our own writes never retrigger the watcher.
func watchStore(path string, assets []string, defaults lodgen.ImportSettings, workers int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	reloaded := make(chan *lodgen.Store, 1)
	err := lodgen.Watch(ctx, path, func(s *lodgen.Store, err error) {
		if err != nil {
			logger.Warningf("reloading %s: %s", path, err)
			return
		}
		select {
		case reloaded <- s:
		default:
		}
	})
	if err != nil {
		return err
	}
	logger.Noticef("watching %s for changes; press ctrl+c to exit", path)

	for {
		select {
		case <-sigCh:
			return nil
		case s := <-reloaded:
			if err := generateAll(s, assets, defaults, workers); err != nil {
				logger.Errorf("regenerating LODs: %s", err)
			}
		}
	}
}

func generateAll(store *lodgen.Store, assets []string, defaults lodgen.ImportSettings, workers int) error {
	for _, file := range assets {
		key := filepath.ToSlash(file)
		settings := store.Settings(key, defaults)
		if !settings.GenerateOnImport {
			logger.Infof("skipping %q: LOD generation disabled", file)
			continue
		}

		data, err := generateAsset(file, settings, workers)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if prev, ok := store.Get(key); ok && prev.OverrideDefaults {
			data.OverrideDefaults = true
			data.ImportSettings = prev.ImportSettings
		}
		store.Put(key, data)
	}
	return nil
}

// generateAsset imports a wavefront file into a scratch scene, generates its
// LOD chain and prints a per-level summary.
func generateAsset(file string, settings lodgen.ImportSettings, workers int) (lodgen.LODData, error) {
	start := time.Now()
	objects, err := asset.ReadWavefrontFile(file)
	if err != nil {
		return lodgen.LODData{}, err
	}
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	sc := scene.New(name)
	root := sc.NewObject(name, nil)
	asset.AddToScene(sc, root, objects)

	simplifier, err := registry.Default.Simplifier(settings.MeshSimplifier)
	if err != nil {
		return lodgen.LODData{}, err
	}
	if workers < 1 {
		workers = config.Default().WorkerCount
	}
	pool := async.NewPool(workers)
	defer pool.Close()

	tk, err := lodgen.NewGenerator(simplifier, pool).Generate(root, settings)
	if err != nil {
		return lodgen.LODData{}, err
	}
	q := task.NewQueue()
	q.Enqueue(tk)
	for {
		pool.Drain()
		if _, pending := q.Run(0); pending == 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	data := lodgen.Describe(root, settings)
	logger.Noticef("generated LODs for %q in %d ms:\n%s", file, time.Since(start).Nanoseconds()/1e6, levelTable(root))
	return data, nil
}

func levelTable(root *scene.Object) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Level", "Renderers", "Polys", "Transition height"})

	group := root.LODGroup()
	if group == nil {
		table.Append([]string{"0", fmt.Sprint(len(root.RenderersInChildren())), fmt.Sprint(lodgen.PolyCount(root.RenderersInChildren())), "-"})
	} else {
		for i, lod := range group.LODs() {
			table.Append([]string{
				fmt.Sprint(i), fmt.Sprint(len(lod.Renderers)), fmt.Sprint(lodgen.PolyCount(lod.Renderers)),
				fmt.Sprintf("%.3f", lod.ScreenRelativeTransitionHeight),
			})
		}
	}
	table.Render()
	return buf.String()
}
