package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/achilleasa/autolod/asset/archive"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display the meshes stored in an HLOD mesh archive.
func Inspect(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing HLOD mesh archive")
	}

	meshes, err := archive.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}

	type row struct {
		id, name                   string
		vertices, polys, subMeshes int
	}
	rows := make([]row, 0, len(meshes))
	for id, m := range meshes {
		rows = append(rows, row{id.String(), m.Name, m.VertexCount(), m.PolyCount(), len(m.SubMeshes)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"ID", "Name", "Vertices", "Polys", "Submeshes"})

	var totalVertices, totalPolys int
	for _, r := range rows {
		table.Append([]string{r.id, r.name, fmt.Sprint(r.vertices), fmt.Sprint(r.polys), fmt.Sprint(r.subMeshes)})
		totalVertices += r.vertices
		totalPolys += r.polys
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d meshes", len(rows)), fmt.Sprint(totalVertices), fmt.Sprint(totalPolys), ""})
	table.Render()

	logger.Noticef("archive contents:\n%s", buf.String())
	return nil
}
