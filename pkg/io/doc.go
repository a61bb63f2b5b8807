// Package io reads and writes chart definition files.
//
// # Overview
//
// A chart definition file describes one [chart.ViewModel]: the data series,
// its labels, and any style settings that differ from the defaults. Three
// encodings are supported and selected by file extension:
//
//   - TOML (.toml), the canonical format written by [ExportChart]
//   - YAML (.yaml, .yml)
//   - JSON (.json)
//
// # Format
//
// Only values is required. Every other key falls back to [chart.Defaults]:
//
//	title = "Download speed"
//	values = [10.4, 12.1, 5.6, 16.9, 3.1, 13.8, 24.2]
//	labels = ["Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"]
//	y_axis_steps = 4
//	bar_color = "#ff0000"
//
//	[margin]
//	left = 5
//	right = 5
//	top = 5
//	bottom = 5
//
// Colors are written as "#rrggbb" or "#rgb". Unknown keys are rejected, so
// a misspelled setting fails loudly instead of being silently ignored.
//
// # Import
//
// Use [ImportChart] to read a file by path, or [ReadChart] to read from any
// io.Reader with an explicit [Format]:
//
//	vm, err := io.ImportChart("week.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// Use [ExportChart] to write a file whose encoding follows its extension,
// or [WriteChart] to write to any io.Writer.
//
// Errors carry codes from the errors package: FILE_NOT_FOUND for missing
// files, INVALID_FORMAT for unknown extensions, INVALID_CHART for documents
// that fail to decode.
package io
