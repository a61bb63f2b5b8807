package io

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
)

// ReadChart decodes a chart definition in format f from r. Keys missing
// from the document keep their values from [chart.Defaults].
//
// ReadChart does not validate the decoded values; a document with negative
// values decodes fine and is rejected later by the pipeline. It does reject
// unknown keys and malformed documents with an INVALID_CHART error.
func ReadChart(r io.Reader, f Format) (*chart.ViewModel, error) {
	vm := chart.Defaults()

	var err error
	switch f {
	case FormatTOML:
		err = decodeTOML(r, vm)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(vm)
		if stderrors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(vm)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported chart format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode %s chart", f)
	}
	return vm, nil
}

func decodeTOML(r io.Reader, vm *chart.ViewModel) error {
	md, err := toml.NewDecoder(r).Decode(vm)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return stderrors.New("unknown keys: " + strings.Join(keys, ", "))
	}
	return nil
}

// ImportChart reads the chart definition file at path, choosing the
// decoder by extension.
func ImportChart(path string) (*chart.ViewModel, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer file.Close()
	return ReadChart(file, f)
}
