package scenelod

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/achilleasa/autolod/asset/archive"
	"github.com/achilleasa/autolod/hlod"
	"github.com/olekukonko/tablewriter"
)

// Save writes the generated HLOD meshes of the tree to
// <dir>/<scene>_HLOD.zip and returns the archive path. Meshes are keyed by
// ids kept on their proxies so replaced proxies can drop them later.
func (m *Manager) Save(dir string) (string, error) {
	if m.root == nil {
		return "", ErrNotActive
	}

	for _, n := range m.root.PostOrder() {
		p := hlod.ProxyOf(n)
		if p == nil {
			continue
		}
		for _, mesh := range p.GeneratedMeshes() {
			m.catalog.Add(p.MeshID(mesh), mesh)
		}
	}

	path := filepath.Join(dir, archive.FileName(m.scene.Name))
	added, err := m.catalog.Save(path)
	if err != nil {
		return "", fmt.Errorf("scenelod: unable to save HLOD meshes: %w", err)
	}
	m.logger.Noticef("persisted %d new HLOD meshes (%d total) to %q", added, m.catalog.Len(), path)
	return path, nil
}

// LoadArchive reads previously saved HLOD meshes into the catalog and
// returns their count.
func (m *Manager) LoadArchive(path string) (int, error) {
	meshes, err := m.catalog.Load(path)
	if err != nil {
		return 0, err
	}
	return len(meshes), nil
}

// Stats renders a summary of the tree and the maintenance state.
func (m *Manager) Stats() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scene %q\n", m.scene.Name)
	buf.WriteString(m.tree.Stats())

	progress := m.Progress()
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Item", "Value"})
	table.Append([]string{"Renderers indexed", fmt.Sprint(len(m.known))})
	table.Append([]string{"Renderers excluded", fmt.Sprint(len(m.excluded))})
	table.Append([]string{"Queued tasks", fmt.Sprint(progress.QueueRemaining)})
	table.Append([]string{"Background jobs", fmt.Sprint(m.pool.Pending())})
	table.Append([]string{"Last tick", progress.LastTickTime.String()})
	if m.aggregator != nil {
		c := m.aggregator.Counters()
		table.Append([]string{"Proxies merged", fmt.Sprint(c.Merged)})
		table.Append([]string{"Proxies rebuilt", fmt.Sprint(c.Rebuilt)})
		table.Append([]string{"Proxies destroyed", fmt.Sprint(c.Destroyed)})
	}
	table.Append([]string{"Catalog meshes", fmt.Sprint(m.catalog.Len())})
	table.Render()
	return buf.String()
}
