// Package scenelod keeps a volume tree and its HLOD proxies in sync with a
// scene and drives per-camera proxy selection.
package scenelod

import (
	"errors"
	"time"

	"github.com/achilleasa/autolod/asset/archive"
	"github.com/achilleasa/autolod/async"
	"github.com/achilleasa/autolod/config"
	"github.com/achilleasa/autolod/hlod"
	"github.com/achilleasa/autolod/lodgen"
	"github.com/achilleasa/autolod/log"
	"github.com/achilleasa/autolod/registry"
	"github.com/achilleasa/autolod/scene"
	"github.com/achilleasa/autolod/selector"
	"github.com/achilleasa/autolod/task"
	"github.com/achilleasa/autolod/volume"
)

var (
	ErrNoBatcher    = errors.New("scenelod: no batcher available; HLOD generation disabled")
	ErrNoSimplifier = errors.New("scenelod: no mesh simplifier available; LOD generation disabled")
	ErrNotActive    = errors.New("scenelod: no volume tree for scene")
)

// Progress describes the outstanding maintenance work.
type Progress struct {
	QueueRemaining int
	LastTickTime   time.Duration
	Busy           bool
}

// Manager owns the volume tree of a scene. All methods must be called from
// the goroutine driving the frame loop.
type Manager struct {
	logger log.Logger

	scene *scene.Scene
	cfg   config.Config

	simplifier registry.MeshSimplifier
	batcher    registry.Batcher

	tree      *volume.Tree
	root      *volume.Node
	activated bool

	queue      *task.Queue
	pool       *async.Pool
	aggregator *hlod.Aggregator
	generator  *lodgen.Generator
	selector   *selector.Selector
	catalog    *archive.Catalog

	known    map[*scene.Renderer]struct{}
	excluded map[*scene.Renderer]struct{}

	sceneDirty   bool
	servicing    bool
	running      bool
	treeModified bool

	selection []*scene.Object
	poses     map[*scene.Object]scene.Transform

	lastTick    time.Duration
	unsubscribe []func()
}

// New creates a manager for sc. Collaborators are resolved from reg, or the
// default registry when reg is nil. A missing batcher disables HLOD
// generation and a missing simplifier disables LOD chain generation; both are
// logged as warnings. An invalid configuration is replaced by the defaults.
func New(sc *scene.Scene, cfg config.Config, reg *registry.Registry) *Manager {
	m := &Manager{
		logger:   log.New("scenelod"),
		scene:    sc,
		cfg:      cfg,
		queue:    task.NewQueue(),
		selector: selector.New(),
		catalog:  archive.NewCatalog(),
		known:    make(map[*scene.Renderer]struct{}),
		excluded: make(map[*scene.Renderer]struct{}),
		poses:    make(map[*scene.Object]scene.Transform),
	}
	if err := cfg.Validate(); err != nil {
		m.logger.Warningf("%s; using defaults", err)
		m.cfg = config.Default()
	}
	if reg == nil {
		reg = registry.Default
	}

	var err error
	if m.batcher, err = reg.Batcher(m.cfg.Batcher); err != nil {
		m.logger.Warningf("%s: %s", ErrNoBatcher, err)
	}
	if m.simplifier, err = reg.Simplifier(m.cfg.MeshSimplifier); err != nil {
		m.logger.Warningf("%s: %s", ErrNoSimplifier, err)
	}
	m.selector.Enabled = m.cfg.HLODEnabled
	m.reset()

	m.unsubscribe = append(m.unsubscribe,
		sc.OnHierarchyChanged(m.onHierarchyChanged),
		sc.OnSelectionChanged(m.onSelectionChanged),
	)
	return m
}

// reset replaces the tree and every component holding references into it.
func (m *Manager) reset() {
	if m.pool != nil {
		m.pool.Close()
	}
	m.pool = async.NewPool(m.cfg.WorkerCount)
	m.tree = volume.NewTree()
	m.root = nil

	m.aggregator = nil
	if m.batcher != nil {
		m.aggregator = hlod.NewAggregator(m.scene, m.batcher, m.pool, m.catalog)
		m.aggregator.TransitionHeight = m.cfg.LODTransitionHeight
	}
	m.generator = nil
	if m.simplifier != nil {
		m.generator = lodgen.NewGenerator(m.simplifier, m.pool)
	}
}

// Close detaches the manager from the scene and stops background work.
func (m *Manager) Close() {
	for _, fn := range m.unsubscribe {
		fn()
	}
	m.unsubscribe = nil
	m.queue.Clear()
	m.pool.Close()
}

// Config returns the active configuration.
func (m *Manager) Config() config.Config { return m.cfg }

// Tree returns the volume tree.
func (m *Manager) Tree() *volume.Tree { return m.tree }

// Root returns the current root node or nil.
func (m *Manager) Root() *volume.Node { return m.root }

// Indexed returns the number of renderers indexed by the tree.
func (m *Manager) Indexed() int { return len(m.known) }

// Aggregator returns the HLOD aggregator or nil when HLOD generation is
// disabled.
func (m *Manager) Aggregator() *hlod.Aggregator { return m.aggregator }

// Selector returns the proxy selector.
func (m *Manager) Selector() *selector.Selector { return m.selector }

// Catalog returns the generated mesh catalog.
func (m *Manager) Catalog() *archive.Catalog { return m.catalog }

// Activate allows the manager to create a volume tree for the scene. Trees
// are never created implicitly.
func (m *Manager) Activate() {
	m.activated = true
	m.sceneDirty = true
}

// Active reports whether the manager may maintain a tree.
func (m *Manager) Active() bool {
	return m.activated || m.root != nil
}

// Destroy drops the tree, every HLOD proxy and all pending work.
func (m *Manager) Destroy() {
	m.queue.Clear()
	m.running = true
	m.tree.Destroy()
	m.running = false
	m.reset()

	clear(m.known)
	clear(m.excluded)
	clear(m.poses)
	m.activated = false
	m.servicing = false
	m.sceneDirty = false
	m.treeModified = true
	instrumentIndexed(m.scene.Name, 0)
}

// Regenerate rebuilds the tree and all HLOD proxies from scratch.
func (m *Manager) Regenerate() {
	m.Destroy()
	m.running = true
	if c := m.scene.Find(scene.HLODContainerName); c != nil {
		c.Destroy()
	}
	m.running = false
	m.Activate()
}

// SetHLODEnabled toggles proxy selection. Disabling it shows the original
// renderers again.
func (m *Manager) SetHLODEnabled(enabled bool) {
	m.cfg.HLODEnabled = enabled
	m.selector.Enabled = enabled
	if !enabled && m.root != nil {
		m.selector.Update(m.root, nil)
	}
	m.treeModified = true
}

// GenerateLODs queues LOD chain generation for obj.
func (m *Manager) GenerateLODs(obj *scene.Object, settings lodgen.ImportSettings) error {
	if m.generator == nil {
		return ErrNoSimplifier
	}
	tk, err := m.generator.Generate(obj, settings)
	if err != nil {
		return err
	}
	m.queue.Enqueue(task.Sequence(tk, task.Do(m.markSceneDirty)))
	return nil
}

// Tick delivers finished background jobs, starts a maintenance pass when the
// scene or the tree changed and then runs queued work within the configured
// time budget.
func (m *Manager) Tick() {
	start := time.Now()
	m.running = true
	m.pool.Drain()
	m.running = false

	if !m.servicing && m.Active() && (m.sceneDirty || m.rootDirty()) {
		m.servicing = true
		m.sceneDirty = false
		m.queue.Enqueue(m.service())
	}

	m.running = true
	stepsBefore := m.queue.Steps()
	_, pending := m.queue.Run(m.cfg.Budget())
	m.running = false

	if m.queue.Steps() != stepsBefore {
		m.treeModified = true
	}
	m.lastTick = time.Since(start)
	instrumentTick(m.scene.Name, m.lastTick, pending)
}

// Flush ticks until all queued work, including background jobs, is done or
// the timeout expires. It returns false on timeout.
func (m *Manager) Flush(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		m.Tick()
		if !m.Progress().Busy {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		if m.pool.Pending() != 0 {
			time.Sleep(time.Millisecond)
		}
	}
}

// Progress reports the outstanding work.
func (m *Manager) Progress() Progress {
	return Progress{
		QueueRemaining: m.queue.Len(),
		LastTickTime:   m.lastTick,
		Busy:           m.queue.Len() != 0 || m.pool.Pending() != 0 || (m.Active() && (m.sceneDirty || m.rootDirty())),
	}
}

// PreCull resolves proxy visibility for cam. The selector only runs when the
// camera or the tree changed since the previous call.
func (m *Manager) PreCull(cam *scene.Camera) {
	if m.root == nil {
		return
	}
	if !m.cfg.HLODEnabled {
		m.selector.Update(m.root, cam)
		return
	}
	if !m.treeModified && !m.selector.CameraChanged(cam) {
		return
	}
	m.treeModified = false
	m.selector.Update(m.root, cam)
}

func (m *Manager) rootDirty() bool {
	return m.aggregator != nil && m.root.Alive() && m.root.Dirty
}

func (m *Manager) markSceneDirty() {
	m.sceneDirty = true
	clear(m.excluded)
}

func (m *Manager) onHierarchyChanged() {
	// Proxies and LOD chains built by queued work notify as well.
	if m.running {
		return
	}
	m.markSceneDirty()
}
