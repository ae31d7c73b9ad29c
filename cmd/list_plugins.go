package cmd

import (
	"bytes"

	"github.com/achilleasa/autolod/registry"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the registered mesh simplifiers and batchers.
func ListPlugins(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Kind", "ID"})
	for _, id := range registry.Default.SimplifierIDs() {
		table.Append([]string{"mesh simplifier", id})
	}
	for _, id := range registry.Default.BatcherIDs() {
		table.Append([]string{"batcher", id})
	}
	table.Render()

	logger.Noticef("registered plugins:\n%s", buf.String())
	return nil
}
