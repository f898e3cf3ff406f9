package pipeline

import (
	"bytes"
	"fmt"

	symio "github.com/matzehuels/symtower/pkg/io"
	"github.com/matzehuels/symtower/pkg/render"
)

// Render generates artifacts for report in every format of opts.Formats.
func Render(report *symio.Report, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		if dot == "" && isDiagram(format) {
			dot = render.ToDOT(report, opts.Render)
		}

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = render.RenderSVG(dot)
		case FormatPNG:
			data, err = render.RenderPNG(dot, DefaultPNGScale)
		case FormatPDF:
			data, err = render.RenderPDF(dot)
		case FormatJSON, FormatTOML, FormatYAML:
			data, err = encodeReport(report, format)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func isDiagram(format string) bool {
	switch format {
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		return true
	}
	return false
}

func encodeReport(report *symio.Report, format string) ([]byte, error) {
	f, err := symio.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := symio.WriteReport(report, &buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
