package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

func validateOutput(format string) error {
	switch format {
	case outputJSON, outputYAML, outputTable:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json, yaml or table)", format)
	}
}

// render writes v as JSON or YAML, or hands a tabwriter to table.
func (c *cli) render(v any, table func(w io.Writer)) error {
	switch c.output {
	case outputJSON:
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(v)

	case outputYAML:
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()

	default:
		tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
		table(tw)

		return tw.Flush()
	}
}

// row writes tab-separated cells followed by a newline.
func row(w io.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fmt.Sprint(cell)
	}

	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func stars(n int) string {
	return strings.Repeat("*", max(n, 0))
}
