package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type palette struct {
	header *color.Color
	label  *color.Color
	good   *color.Color
	bad    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		header: color.New(color.FgCyan, color.Bold),
		label:  color.New(color.Faint),
		good:   color.New(color.FgGreen),
		bad:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.header, p.label, p.good, p.bad} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// rate colors a hit rate green when most lookups hit.
func (p palette) rate(r float64) string {
	s := fmt.Sprintf("%.1f%%", r*100)
	if r >= 0.5 {
		return p.good.Sprint(s)
	}
	return s
}

func (p palette) count(n int) string {
	if n > 0 {
		return p.bad.Sprint(n)
	}
	return fmt.Sprint(n)
}

func printReport(w io.Writer, reports []fileReport, colored bool) error {
	p := newPalette(colored)
	var total fileReport
	for _, r := range reports {
		if err := printFile(w, p, r); err != nil {
			return err
		}
		total.Lines += r.Lines
		total.Cells += r.Cells
		total.Map.Created += r.Map.Created
		total.Map.Reused += r.Map.Reused
		total.Map.Blank += r.Map.Blank
		total.Map.Skipped += r.Map.Skipped
	}
	if len(reports) < 2 {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s %d files, %d lines, %d cells, %d sprites created, %d reused, %s skipped\n",
		p.header.Sprint("total:"), len(reports), total.Lines, total.Cells,
		total.Map.Created, total.Map.Reused, p.count(total.Map.Skipped))
	return err
}

func printFile(w io.Writer, p palette, r fileReport) error {
	_, err := fmt.Fprintf(w, "%s\n"+
		"  %s %d lines, %d cells (%d blank)\n"+
		"  %s %d entries, capacity %d, hit rate %s, scratch %d bytes\n"+
		"  %s %d created, %d reused, %d rendered, %d ligatures, %s skipped\n"+
		"  %s %d glyphs\n"+
		"  %s %dx%d slots, layer %d\n",
		p.header.Sprint(r.Path),
		p.label.Sprint("text:      "), r.Lines, r.Cells, r.Map.Blank,
		p.label.Sprint("sprites:   "), r.Sprites.Len, r.Sprites.Cap, p.rate(r.Sprites.HitRate), r.Sprites.ScratchCap,
		p.label.Sprint("mapping:   "), r.Map.Created, r.Map.Reused, r.Map.Rendered, r.Map.Ligatures, p.count(r.Map.Skipped),
		p.label.Sprint("properties:"), r.Properties,
		p.label.Sprint("atlas:     "), r.AtlasCols, r.AtlasRows, r.AtlasLayer,
	)
	return err
}
