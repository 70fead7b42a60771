package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/nanoref/types"
)

// schemaFile is the YAML document declaring the field being edited and
// any option overrides
type schemaFile struct {
	Field   types.FieldSchema `yaml:"field"`
	Options *optionsFile      `yaml:"options"`
}

// optionsFile carries option overrides in file-friendly form. Pointer
// fields distinguish "absent" from "false"; absent values keep their
// defaults.
type optionsFile struct {
	SearchFields  []string `yaml:"search_fields"`
	Limit         int      `yaml:"limit"`
	DebounceMS    *int     `yaml:"debounce_ms"`
	HideAdded     *bool    `yaml:"hide_added"`
	AllowAddOne   *bool    `yaml:"allow_add_one"`
	AllowAddAll   *bool    `yaml:"allow_add_all"`
	SortFields    []string `yaml:"sort_fields"`
	CaseSensitive *bool    `yaml:"case_sensitive"`
}

// defaultSchema is used when no schema file is given: an unrestricted
// "references" field with default options
func defaultSchema() (types.FieldSchema, types.Options) {
	return types.FieldSchema{Name: "references"}, types.DefaultOptions()
}

// loadSchema reads the field declaration and merges option overrides
// over the defaults
func loadSchema(path string) (types.FieldSchema, types.Options, error) {
	if path == "" {
		schema, opts := defaultSchema()
		return schema, opts, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return types.FieldSchema{}, types.Options{}, fmt.Errorf("failed to read schema file: %w", err)
	}

	var file schemaFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return types.FieldSchema{}, types.Options{}, fmt.Errorf("failed to parse schema file: %w", err)
	}

	opts := types.DefaultOptions()
	if o := file.Options; o != nil {
		if len(o.SearchFields) > 0 {
			opts.SearchFields = o.SearchFields
		}
		if o.Limit > 0 {
			opts.Limit = o.Limit
		}
		if o.DebounceMS != nil {
			opts.DebounceInterval = time.Duration(*o.DebounceMS) * time.Millisecond
		}
		if o.HideAdded != nil {
			opts.HideAdded = *o.HideAdded
		}
		if o.AllowAddOne != nil {
			opts.AllowAddOne = *o.AllowAddOne
		}
		if o.AllowAddAll != nil {
			opts.AllowAddAll = *o.AllowAddAll
		}
		if len(o.SortFields) > 0 {
			opts.SortFields = o.SortFields
		}
		if o.CaseSensitive != nil {
			opts.CaseSensitive = *o.CaseSensitive
		}
	}

	if err := file.Field.Validate(); err != nil {
		return types.FieldSchema{}, types.Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return types.FieldSchema{}, types.Options{}, err
	}
	return file.Field, opts, nil
}
