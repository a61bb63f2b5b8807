package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
)

// WriteChart encodes vm in format f and writes it to w. The output can be
// read back with [ReadChart].
func WriteChart(vm *chart.ViewModel, w io.Writer, f Format) error {
	if vm == nil {
		return errors.New(errors.ErrCodeInvalidChart, "chart is required")
	}

	var err error
	switch f {
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(vm)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(vm); err == nil {
			err = enc.Close()
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(vm)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported chart format %q", f)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s chart", f)
	}
	return nil
}

// ExportChart writes vm to a file at path, encoded according to its
// extension.
func ExportChart(vm *chart.ViewModel, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer file.Close()
	return WriteChart(vm, file, f)
}
