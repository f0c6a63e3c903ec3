package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/fxnlabs/contract-wrappers/internal/registry"
)

type artifactDetails struct {
	Name          string            `json:"name"`
	SchemaVersion string            `json:"schemaVersion"`
	Compiler      string            `json:"compiler"`
	Networks      map[string]string `json:"networks"`
	Methods       []string          `json:"methods"`
	Events        []string          `json:"events"`
	HasBytecode   bool              `json:"hasBytecode"`
}

func artifactsCommands() *cli.Command {
	return &cli.Command{
		Name:  "artifacts",
		Usage: "Inspect the contract artifact registry",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List registered contracts and the networks they are deployed on",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print JSON instead of a table"},
				},
				Action: func(c *cli.Context) error {
					artifacts, err := loadArtifacts(c)
					if err != nil {
						return err
					}
					rows := lo.Map(artifacts.Names(), func(name string, _ int) artifactDetails {
						a, _ := artifacts.Get(name)
						return describeArtifact(a)
					})
					if c.Bool("json") {
						return printJSON(c.App.Writer, rows)
					}
					renderArtifacts(c, rows)
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Show one artifact",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("contract name is required")
					}
					artifacts, err := loadArtifacts(c)
					if err != nil {
						return err
					}
					a, ok := artifacts.Get(name)
					if !ok {
						return fmt.Errorf("%w: %s", registry.ErrUnknownContract, name)
					}
					return printJSON(c.App.Writer, describeArtifact(a))
				},
			},
		},
	}
}

func describeArtifact(a *registry.Artifact) artifactDetails {
	contractABI := a.ABI()
	methods := lo.Keys(contractABI.Methods)
	sort.Strings(methods)
	events := lo.Keys(contractABI.Events)
	sort.Strings(events)

	networks := make(map[string]string, len(a.Networks))
	for _, id := range a.NetworkIDs() {
		if address, err := a.Address(id); err == nil {
			networks[strconv.FormatUint(id, 10)] = address.Hex()
		}
	}
	bytecode, _ := a.Bytecode()

	return artifactDetails{
		Name:          a.ContractName,
		SchemaVersion: a.SchemaVersion,
		Compiler:      strings.TrimSpace(a.Compiler.Name + " " + a.Compiler.Version),
		Networks:      networks,
		Methods:       methods,
		Events:        events,
		HasBytecode:   len(bytecode) > 0,
	}
}

func renderArtifacts(c *cli.Context, rows []artifactDetails) {
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Contract", "Networks", "Methods", "Bytecode"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	for _, row := range rows {
		ids := lo.Keys(row.Networks)
		sort.Slice(ids, func(i, j int) bool {
			a, _ := strconv.ParseUint(ids[i], 10, 64)
			b, _ := strconv.ParseUint(ids[j], 10, 64)
			return a < b
		})
		networks := "-"
		if len(ids) > 0 {
			networks = strings.Join(ids, ", ")
		}
		bytecode := "abstract"
		if row.HasBytecode {
			bytecode = "yes"
		}
		t.AppendRow(table.Row{row.Name, networks, len(row.Methods), bytecode})
	}
	t.Render()
}
