package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/nanoref/types"
)

// refLine is one row of show output: the reference plus its resolved
// document, when it still resolves
type refLine struct {
	Position int                    `json:"position" yaml:"position"`
	ID       string                 `json:"id" yaml:"id"`
	Key      string                 `json:"key" yaml:"key"`
	Title    string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Kind     string                 `json:"kind,omitempty" yaml:"kind,omitempty"`
	Fields   map[string]interface{} `json:"fields,omitempty" yaml:"fields,omitempty"`
	Dangling bool                   `json:"dangling,omitempty" yaml:"dangling,omitempty"`
}

// renderLines prints reference rows in the requested format
func renderLines(lines []refLine, format string) error {
	switch format {
	case "json":
		raw, err := json.MarshalIndent(lines, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(raw))
	case "yaml":
		raw, err := yaml.Marshal(lines)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Print(string(raw))
	case "table", "":
		renderTable(lines)
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
	return nil
}

func renderTable(lines []refLine) {
	if len(lines) == 0 {
		faint := color.New(color.Faint, color.Italic)
		_, _ = faint.Println("no references")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("#", "TITLE", "KIND", "ID", "FIELDS")
	for _, line := range lines {
		title := line.Title
		if line.Dangling {
			title = color.New(color.FgRed, color.Italic).Sprint("(missing)")
		}
		table.AddRow(line.Position, title, line.Kind, line.ID, fieldsSummary(line.Fields))
	}
	fmt.Println(table)
}

// fieldsSummary renders a field map compactly, keys sorted
func fieldsSummary(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if strings.HasPrefix(key, types.ReservedFieldPrefix) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s=%v", key, fields[key])
	}
	return strings.Join(parts, " ")
}
