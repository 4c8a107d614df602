package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/glyphcache"
	"github.com/gogpu/glyphcache/text"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [flags] [file...]",
		Short: "Report sprite cache behavior for text files",
		Long: `Stats shapes every line of the given files (stdin when none or "-"),
maps the clusters to sprites and reports how the caches performed.`,
		RunE: runStats,
	}
	cmd.Flags().String("font", "", "TrueType/OpenType font file (default: Go Regular)")
	cmd.Flags().Float64("size", 16, "font size in pixels")
	cmd.Flags().String("config", "", "TOML configuration file")
	cmd.Flags().Int("jobs", 0, "files processed in parallel (0 = GOMAXPROCS)")
	cmd.Flags().Bool("ambiguous-wide", false, "count East Asian ambiguous-width runes as two cells")
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	fontPath, _ := flags.GetString("font")
	size, _ := flags.GetFloat64("size")
	configPath, _ := flags.GetString("config")
	jobs, _ := flags.GetInt("jobs")
	wide, _ := flags.GetBool("ambiguous-wide")

	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return err
		}
	}

	fontData := goregular.TTF
	if fontPath != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return fmt.Errorf("failed to read font: %w", err)
		}
		fontData = data
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	inputs := make([]input, len(args))
	for i, path := range args {
		src, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		inputs[i] = input{path: path, src: src}
	}

	a := analyzer{
		fontData: fontData,
		size:     size,
		cfg:      cfg,
		shaperOpts: []text.ShaperOption{
			text.WithAmbiguousWide(wide),
		},
	}
	reports, err := a.analyzeAll(cmd.Context(), inputs, jobs)
	if err != nil {
		return err
	}

	return printReport(cmd.OutOrStdout(), reports, useColor(cmd))
}

type input struct {
	path string
	src  string
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// fileReport is what one input produced.
type fileReport struct {
	Path       string
	Lines      int
	Cells      int
	Map        text.MapStats
	Sprites    glyphcache.Stats
	Properties int
	AtlasCols  int
	AtlasRows  int
	AtlasLayer int
}

// analyzer holds what every file shares. Caches, scratch and tracker are
// built per file so files can be processed in parallel.
type analyzer struct {
	fontData   []byte
	size       float64
	cfg        Config
	shaperOpts []text.ShaperOption
}

func (a *analyzer) analyzeAll(ctx context.Context, inputs []input, jobs int) ([]fileReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indices are unique per goroutine, no locking needed.
	reports := make([]fileReport, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(1, len(inputs))))
	for i, in := range inputs {
		g.Go(func() error {
			r, err := a.analyze(gctx, in)
			if err != nil {
				return fmt.Errorf("%s: %w", in.path, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (a *analyzer) analyze(ctx context.Context, in input) (fileReport, error) {
	shaper, err := text.NewShaper(a.fontData, a.size, a.shaperOpts...)
	if err != nil {
		return fileReport{}, err
	}

	scratch := glyphcache.NewKeyScratch()
	defer scratch.Release()
	opts := a.cfg.cacheOptions(scratch)

	props := glyphcache.NewGlyphPropertiesCache(opts...)
	defer props.Destroy()
	resolver, err := text.NewPropertyResolver(a.fontData, props)
	if err != nil {
		return fileReport{}, err
	}

	sprites := glyphcache.NewSpritePositionCache(opts...)
	defer sprites.Destroy()
	tracker, err := glyphcache.NewSpriteTracker(a.cfg.trackerConfig(), a.cfg.Cell.Width, a.cfg.Cell.Height)
	if err != nil {
		return fileReport{}, err
	}
	mapper := text.NewSpriteMapper(sprites, tracker, text.WithProperties(resolver))

	r := fileReport{Path: in.path}
	var cells []*glyphcache.SpritePosition
	for line := range strings.Lines(in.src) {
		if err := ctx.Err(); err != nil {
			return fileReport{}, err
		}
		line = strings.TrimRight(line, "\r\n")
		cells = mapper.Map(shaper.Shape(line), cells[:0])
		r.Lines++
		r.Cells += len(cells)
	}

	r.Map = mapper.Stats()
	r.Sprites = sprites.Stats()
	r.Properties = props.Len()
	r.AtlasCols, r.AtlasRows, r.AtlasLayer = tracker.Layout()
	glyphcache.Logger().Debug("glyphcache: file analyzed", "path", in.path, "lines", r.Lines, "sprites", r.Sprites.Len)
	return r, nil
}
