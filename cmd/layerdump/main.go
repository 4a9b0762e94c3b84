// Command layerdump compiles a layering configuration and prints the
// resulting renderer blocks in draw order.
//
// Usage:
//
//	layerdump -config config/testdata/map.yaml -scale 30000
//	layerdump -config map.yaml -scale 4000 -pipelines -v
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/layering"
	"github.com/gogpu/layering/config"
	"github.com/gogpu/layering/pipeline"
)

func main() {
	var (
		path      = flag.String("config", "", "layering YAML file (default $"+config.EnvPath+")")
		view      = flag.Int("view", 0, "view id")
		scale     = flag.Float64("scale", 0, "map scale denominator; 0 keeps single-level compilation")
		minimap   = flag.Bool("minimap", false, "force alpha blending on the forward pass")
		pipelines = flag.Bool("pipelines", false, "build HAL pipelines on a noop device and report the count")
		verbose   = flag.Bool("v", false, "log every block at debug level")
	)
	flag.Parse()

	if *verbose {
		layering.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	registry := layering.NewLevelRegistry()
	if *scale > 0 {
		registry.SetScale(*scale, *view)
	}
	c := layering.NewCompiler(registry,
		layering.WithConfiguration(cfg),
		layering.WithBlockLogging(*verbose))
	c.Update(*view)

	forward := c.ForwardDraws()
	if *minimap {
		forward = layering.WithTransparentBlend(forward)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PASS\t#\tQUEUES\tLAYERS\tOVERRIDE\tBLEND\tDEPTH\tSTENCIL\tREF")
	printBlocks(w, "forward", forward)
	printBlocks(w, "prepass", c.PrePassDraws())
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	stats := c.Stats()
	log.Printf("%d layers: forward=%d transparent=%d prepass=%d stencil_ref=%d saturated=%d skipped=%d\n",
		len(cfg.LayeringInfos()), stats.Forward, stats.ForwardTransparent, stats.PrePass,
		stats.StencilRef, stats.Saturated, stats.Skipped)

	if *pipelines {
		n, err := countPipelines(forward, c.PrePassDraws())
		if err != nil {
			log.Fatalf("Failed to build pipelines: %v", err)
		}
		log.Printf("%d distinct pipelines\n", n)
	}
}

func printBlocks(w io.Writer, pass string, blocks iter.Seq[layering.RendererBlock]) {
	i := 0
	for b := range blocks {
		s := b.State
		blend := "material"
		if s.Mask.Has(layering.StateBlend) {
			blend = fmt.Sprintf("%v/%v", s.Blend.Blend.Color.SrcFactor, s.Blend.Blend.Color.DstFactor)
			if s.Blend.WriteMask == gputypes.ColorWriteMaskNone {
				blend += " nocolor"
			}
		}
		depth := s.Depth.Compare.String()
		if s.Depth.WriteEnabled {
			depth += " write"
		}
		stencil := "-"
		if s.Stencil.Enabled {
			stencil = fmt.Sprintf("%v/%v r%#x w%#x",
				s.Stencil.Front.Compare, s.Stencil.Front.PassOp, s.Stencil.ReadMask, s.Stencil.WriteMask)
		}
		fmt.Fprintf(w, "%s\t%d\t%d-%d\t%#x\t%v\t%s\t%s\t%s\t%d\n",
			pass, i, b.MinQueue, b.MaxQueue, b.RenderingLayerMask, s.Mask, blend, depth, stencil, s.StencilReference)
		i++
	}
}

// countPipelines records every sequence through a pipeline cache on a noop
// device and returns the number of pipelines created.
func countPipelines(seqs ...iter.Seq[layering.RendererBlock]) (int, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return 0, err
	}
	defer instance.Destroy()
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return 0, errors.New("no noop adapter")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return 0, err
	}
	defer openDev.Device.Destroy()

	tmpl := pipeline.DefaultTemplate()
	cache, err := pipeline.NewCache(openDev.Device, &tmpl)
	if err != nil {
		return 0, err
	}
	defer cache.Destroy()

	pass := &noop.RenderPassEncoder{}
	for _, seq := range seqs {
		if _, err := cache.Record(pass, seq, func(hal.RenderPassEncoder, layering.RendererBlock) error {
			return nil
		}); err != nil {
			return 0, err
		}
	}
	return cache.Len(), nil
}
