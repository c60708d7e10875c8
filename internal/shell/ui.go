package shell

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parchment-shell/parchment/internal/config"
	"github.com/parchment-shell/parchment/internal/display"
	"github.com/parchment-shell/parchment/internal/draft"
	"github.com/parchment-shell/parchment/internal/draw"
	"github.com/parchment-shell/parchment/internal/gesture"
	"github.com/parchment-shell/parchment/internal/geometry"
	"github.com/parchment-shell/parchment/internal/logging"
	"github.com/parchment-shell/parchment/internal/paths"
)

// killSettle gives the kernel time to reap a killed tree before the
// close button's redraw re-queries the process table.
const killSettle = 100 * time.Millisecond

// closeButtonSize is the side of the close hit box in the icon's corner.
const closeButtonSize = 32

// Metrics is the panel geometry derived from the display and grid shape.
type Metrics struct {
	IconSize    int
	Spacing     int
	RowWidth    int
	RowHeight   int
	RowMargin   int
	PanelHeight int
	FontSize    float64
	Rows        int
	Columns     int

	Display geometry.Rect
	Panel   geometry.Rect
}

// NewMetrics computes the grid layout for a display and panel shape.
func NewMetrics(displayCfg config.DisplayConfig, panelCfg config.PanelConfig) Metrics {
	iconSize := (displayCfg.Height / 4) / 3
	spacing := iconSize / 4
	rowWidth := iconSize*panelCfg.Columns + spacing*(panelCfg.Columns-1)
	rowHeight := iconSize + int(panelCfg.FontSize)*2
	panelHeight := rowHeight * panelCfg.Rows

	return Metrics{
		IconSize:    iconSize,
		Spacing:     spacing,
		RowWidth:    rowWidth,
		RowHeight:   rowHeight,
		RowMargin:   (displayCfg.Width - rowWidth) / 2,
		PanelHeight: panelHeight,
		FontSize:    panelCfg.FontSize,
		Rows:        panelCfg.Rows,
		Columns:     panelCfg.Columns,
		Display:     geometry.NewRect(0, 0, displayCfg.Width, displayCfg.Height),
		Panel:       geometry.NewRect(0, displayCfg.Height-panelHeight, displayCfg.Width, panelHeight),
	}
}

// UI builds the tray's draw plans. Plans capture the registry and the
// orchestrator's Post, so re-evaluating one picks up fresh icon and
// process state.
type UI struct {
	post       Post
	registry   *draft.Registry
	metrics    Metrics
	hysteresis float64
	// suspended is the draft resumed when the user exits the tray.
	suspended *draft.Descriptor
	log       *logging.Logger
}

// NewUI wires the plan builders.
func NewUI(post Post, registry *draft.Registry, metrics Metrics, hysteresis float64, suspended *draft.Descriptor, log *logging.Logger) *UI {
	return &UI{
		post:       post,
		registry:   registry,
		metrics:    metrics,
		hysteresis: hysteresis,
		suspended:  suspended,
		log:        log.Named("ui"),
	}
}

// exit runs the strict shutdown order: input fully stopped before a
// draft takes the ungrabbed devices, renderer stopped after launch
// initiation, then the loop ends.
func (u *UI) exit(run *draft.Descriptor) {
	u.post(StopInput{})
	if run != nil {
		u.post(Run{Draft: *run})
	}
	u.post(StopRenderer{})
	u.post(Exit{})
}

// Tray is the root plan: a press anywhere above the panel exits, the
// bottom strip hosts the draft grid.
func (u *UI) Tray() draw.Op {
	return draw.Over{
		draw.Unit(),
		draw.Seq{
			draw.MarginBottom(u.metrics.PanelHeight),
			draw.Recognize(gesture.OnPress(func(geometry.Point) {
				u.log.Info("tapped above panel, exiting")
				u.exit(u.suspended)
			})),
		},
		draw.Seq{
			draw.MarginTop(u.metrics.Display.Height - u.metrics.PanelHeight),
			u.draftsPanel(),
		},
	}
}

// draftsPanel draws the bordered bottom strip with the icon grid and
// registers the swipe-down exit gesture.
func (u *UI) draftsPanel() draw.Op {
	return draw.Seq{
		draw.Recognize(gesture.Drag(func(delta geometry.Vector) bool {
			if delta.Y <= u.hysteresis {
				return false
			}
			u.log.Info("swiped panel, exiting")
			u.exit(u.suspended)
			return true
		})),
		draw.RectBorder(2, display.White, display.Black),
		draw.MarginHorizontal(u.metrics.RowMargin),
		draw.MarginTop(u.metrics.RowMargin),
		u.draftGrid(),
		draw.SetRect(u.metrics.Panel),
		draw.PartialRefresh(display.Fast()),
	}
}

// draftGrid lays the draft tiles out row by row.
func (u *UI) draftGrid() draw.Func {
	return func(ctx draw.Context) draw.Context {
		tiles := make([]draw.Op, 0, len(u.registry.Drafts()))
		for _, d := range u.registry.Drafts() {
			tiles = append(tiles, u.draftTile(d))
		}

		for row := 0; len(tiles) > 0; row++ {
			n := u.metrics.Columns
			if n > len(tiles) {
				n = len(tiles)
			}
			ctx = draw.Overlay(draw.Seq{
				draw.OffsetRel(0, u.metrics.RowHeight*row),
				draw.Horizontal(u.metrics.Spacing, tiles[:n]),
			})(ctx)
			tiles = tiles[n:]
		}
		return ctx
	}
}

// draftTile draws one titled icon: the tappable icon box with its close
// button, and the word-wrapped centered title beneath.
func (u *UI) draftTile(d draft.Descriptor) draw.Op {
	words := make([]draw.Op, 0, 2)
	for _, word := range strings.Fields(d.Name) {
		words = append(words, draw.TextAligned(word, u.metrics.FontSize, 0.5, 0, display.Black))
	}

	return draw.Over{
		draw.SetWidth(u.metrics.IconSize),
		draw.Seq{
			draw.SetHeight(u.metrics.IconSize),
			draw.Recognize(gesture.Tap(u.hysteresis, func(geometry.Point) {
				u.log.Info("draft tapped", zap.String("draft", d.Name))
				u.exit(&d)
			})),
			draw.Margin(-1),
			draw.RectStroke(2, display.Black),
			draw.Overlay(u.draftIcon(d)),
			draw.Overlay(u.closeButton(d)),
		},
		draw.Seq{
			draw.MarginTop(u.metrics.IconSize + u.metrics.Spacing),
			draw.OffsetRel(u.metrics.IconSize/2, 0),
			draw.VerticalFixed(int(u.metrics.FontSize)-8, words),
		},
	}
}

// draftIcon draws the loaded icon centered in the box, or a spinner
// placeholder while the background loader is still working.
func (u *UI) draftIcon(d draft.Descriptor) draw.Func {
	return func(ctx draw.Context) draw.Context {
		icon, ok := u.registry.Icon(d.Name)
		if !ok {
			return u.spinner(16, 4, display.Black).Apply(ctx)
		}
		return draw.Seq{
			draw.OffsetRel(
				(u.metrics.IconSize-icon.Bounds().Dx())/2,
				(u.metrics.IconSize-icon.Bounds().Dy())/2,
			),
			draw.Image(icon),
		}.Apply(ctx)
	}
}

// closeButton draws the corner kill button only while the draft has a
// bound process.
func (u *UI) closeButton(d draft.Descriptor) draw.Func {
	return func(ctx draw.Context) draw.Context {
		if !u.registry.IsLive(d) {
			return ctx
		}
		return draw.Seq{
			draw.MarginLeft(u.metrics.IconSize - closeButtonSize),
			draw.MarginBottom(u.metrics.IconSize - closeButtonSize),
			draw.Recognize(gesture.Tap(u.hysteresis, func(geometry.Point) {
				u.log.Info("closing draft", zap.String("draft", d.Name))
				if err := u.registry.Terminate(d); err != nil {
					u.log.Warn("terminate failed", zap.Error(err))
					return
				}
				time.Sleep(killSettle)
				u.post(Redraw{})
			})),
			draw.RectBorder(2, display.White, display.Black),
			draw.OffsetAbs(0.5, 0.5),
			draw.Overlay(draw.Line(geometry.Point{X: -10, Y: -10}, geometry.Point{X: 10, Y: 10}, 3, display.Black)),
			draw.Overlay(draw.Line(geometry.Point{X: 10, Y: -10}, geometry.Point{X: -10, Y: 10}, 3, display.Black)),
		}.Apply(ctx)
	}
}

// spinner draws three dots centered in the current rect.
func (u *UI) spinner(offset, radius int, c display.Color) draw.Op {
	return draw.Seq{
		draw.OffsetAbs(0.5, 0.5),
		draw.Overlay(draw.Seq{draw.OffsetRel(-offset, 0), draw.CircleFill(radius, c)}),
		draw.Overlay(draw.CircleFill(radius, c)),
		draw.Overlay(draw.Seq{draw.OffsetRel(offset, 0), draw.CircleFill(radius, c)}),
	}
}

// PanelScreenshot dumps the bottom strip to the screenshot cache.
func (u *UI) PanelScreenshot(layout paths.Layout) draw.Op {
	return draw.Seq{
		draw.SetRect(u.metrics.Panel),
		draw.DumpRegion(func(data []byte) {
			u.saveScreenshot(layout.Screenshot(PanelScreenshotKey), data)
		}),
	}
}

// FullScreenshot dumps the whole display keyed by the draft's launch
// target, read back when switching to it later.
func (u *UI) FullScreenshot(layout paths.Layout, d draft.Descriptor) draw.Op {
	return draw.Seq{
		draw.SetRect(u.metrics.Display),
		draw.DumpRegion(func(data []byte) {
			u.saveScreenshot(layout.Screenshot(d.FileName()), data)
		}),
	}
}

func (u *UI) saveScreenshot(path string, data []byte) {
	u.log.Info("saving screenshot", zap.String("path", path))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		u.log.Warn("screenshot save failed", zap.Error(err))
	}
}
