// Command layoutdemo exercises the reconciliation façade against the
// fallback text measurer and prints the resulting rects, so the engine
// is runnable and inspectable without any real rendering backend.
package main

import (
	"flag"
	"fmt"

	"github.com/flexkit/layout"
	"github.com/flexkit/layout/internal/logger"
)

func main() {
	viewportW := flag.Float64("width", 800, "viewport width")
	viewportH := flag.Float64("height", 600, "viewport height")
	nMax := flag.Int("n-max", 1024, "maximum live node count")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logger.SetLevel(logger.LevelDebug)
	}

	engine := layout.New(*nMax, nil)

	root := engine.BeginFrame(float32(*viewportW), float32(*viewportH))

	engine.BeginContainer("toolbar", layout.Style{
		Layout: layout.LayoutStyle{
			Direction:  layout.DirectionRow,
			Justify:    layout.JustifySpaceBetween,
			AlignItems: layout.AlignCenter,
			Width:      layout.Auto,
			Height:     48,
			MaxWidth:   layout.Unbounded,
			MaxHeight:  layout.Unbounded,
			Gap:        8,
		},
		Spacing: layout.SpacingStyle{
			PaddingLeft: 12, PaddingRight: 12, PaddingTop: 8, PaddingBottom: 8,
		},
	})

	title := engine.Widget("title", textStyle("flexkit demo", 18))
	engine.SetText(title, "flexkit demo", "sans", 18)

	for i, label := range []string{"Save", "Load", "Quit"} {
		btn := engine.WidgetIndexed("toolbar-button", i, layout.Style{
			Layout: layout.LayoutStyle{
				Width: 80, Height: 28, MaxWidth: layout.Unbounded, MaxHeight: layout.Unbounded,
			},
		})
		engine.SetText(btn, label, "sans", 14)
	}
	engine.EndContainer()

	engine.BeginContainer("body", layout.Style{
		Layout: layout.LayoutStyle{
			Direction:  layout.DirectionColumn,
			Justify:    layout.JustifyStart,
			AlignItems: layout.AlignStretch,
			Width:      layout.Auto,
			Height:     layout.Auto,
			MaxWidth:   layout.Unbounded,
			MaxHeight:  layout.Unbounded,
			Gap:        4,
		},
	})
	for i := 0; i < 3; i++ {
		row := engine.WidgetIndexed("body-row", i, layout.Style{
			Layout: layout.LayoutStyle{
				Width: layout.Auto, Height: 24, MaxWidth: layout.Unbounded, MaxHeight: layout.Unbounded,
			},
		})
		engine.SetText(row, fmt.Sprintf("Row %d", i+1), "sans", 14)
	}
	engine.EndContainer()

	engine.EndFrame()

	fmt.Printf("nodes=%d dirty=%d cache_hit_rate=%.2f\n",
		engine.NodeCount(), engine.DirtyCount(), engine.CacheHitRate())
	printTree(engine, root, 0)
}

func textStyle(text string, fontSize float32) layout.Style {
	return layout.Style{
		Layout: layout.LayoutStyle{
			Width: layout.Auto, Height: layout.Auto,
			MaxWidth: layout.Unbounded, MaxHeight: layout.Unbounded,
		},
		Text: layout.TextStyle{Text: text, FontName: "sans", FontSize: fontSize},
	}
}

func printTree(engine *layout.Engine, h layout.Handle, depth int) {
	if layout.NilHandle(h) {
		return
	}
	rect := engine.Rect(h)
	fmt.Printf("%*s- handle=%d rect=%.1f,%.1f %.1fx%.1f\n", depth*2, "", h, rect.X, rect.Y, rect.W, rect.H)
	for c := engine.FirstChild(h); !layout.NilHandle(c); c = engine.NextSibling(c) {
		printTree(engine, c, depth+1)
	}
}
