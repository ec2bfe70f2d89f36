package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutputFormat(f string) error {
	switch strings.ToLower(f) {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (expected table, json or yaml)", f)
	}
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, v interface{}, outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case outputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported structured format %q", outputFormat)
	}
}
