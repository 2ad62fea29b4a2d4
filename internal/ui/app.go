package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mapdecor/internal/config"
	"mapdecor/internal/crs"
	"mapdecor/internal/debug"
	"mapdecor/internal/geo"
	"mapdecor/internal/render"
)

// PanelMode represents which side panel is open
type PanelMode int

const (
	PanelNone PanelMode = iota
	PanelInfo
	PanelDiagnostics
)

const (
	panelWidth  = 56
	panelHeight = 14
)

// App is the main application controller
type App struct {
	screen   tcell.Screen
	mapView  *MapView
	infoView *InfoView
	diagView *DiagnosticsView
	panel    PanelMode
	events   chan tcell.Event
	quit     chan struct{}
	dirty    bool
}

// NewApp creates a new application on screen, which must not be initialized
// yet. A nil screen uses the terminal.
func NewApp(screen tcell.Screen, cfg *config.Config, provider crs.Provider, features map[geo.FeatureType][]*geo.Feature) (*App, error) {
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("failed to create screen: %w", err)
		}
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}

	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	width, height := screen.Size()

	mapView, err := NewMapView(cfg, provider, features, width, height)
	if err != nil {
		screen.Fini()
		return nil, err
	}

	app := &App{
		screen:   screen,
		mapView:  mapView,
		infoView: NewInfoView(0, 0, 0, 0),
		diagView: NewDiagnosticsView(0, 0, 0, 0),
		panel:    PanelNone,
		events:   make(chan tcell.Event, 16),
		quit:     make(chan struct{}),
		dirty:    true,
	}
	app.layoutPanels(width, height)

	return app, nil
}

// Run starts the application main loop; it returns when the user quits or
// ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.cleanup()

	go a.screen.ChannelEvents(a.events, a.quit)

	for {
		if a.dirty {
			a.render()
			a.dirty = false
		}

		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-a.events:
			if !ok {
				return nil
			}
			if !a.handleEvent(ev) {
				return nil
			}
		}
	}
}

// render draws the map, the open panel and the status bar
func (a *App) render() {
	a.screen.Clear()

	a.mapView.Draw(a.screen)
	last := a.mapView.Last()

	switch a.panel {
	case PanelInfo:
		a.infoView.Update(a.mapView.GetProjection(), a.mapView.InsetMode(), last)
		a.infoView.Draw(a.screen)
	case PanelDiagnostics:
		a.diagView.Update(last)
		a.diagView.Draw(a.screen)
	}

	a.drawStatus(last)
	a.screen.Show()
}

// statusLine summarizes the view for the bottom row
func (a *App) statusLine(d Decorations) string {
	proj := a.mapView.GetProjection()
	lat, lon := proj.GetCenter()
	text := fmt.Sprintf(" %s | %.2f,%.2f | r %.0f km", proj.CRS().EPSG, lon, lat, proj.Radius())
	if len(d.Bars) > 0 {
		text += fmt.Sprintf(" | bar %s %s", trim(d.Bars[0].Total), d.Bars[0].Label)
	}
	text += fmt.Sprintf(" | N %+.1f° | inset %s", d.Arrow.Angle, a.mapView.InsetMode())
	if n := len(d.Diagnostics.Warnings()) + len(d.Errors); n > 0 {
		text += fmt.Sprintf(" | %d warnings", n)
	}
	return text + " | Tab panel  i inset  q quit"
}

func (a *App) drawStatus(d Decorations) {
	width, height := a.screen.Size()
	y := height - 1
	for x := 0; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, render.StyleStatus)
	}
	drawText(a.screen, 0, y, runewidth.Truncate(a.statusLine(d), width, "…"), render.StyleStatus)
}

// handleEvent processes keyboard events; false means quit
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.dirty = true
		switch ev.Key() {
		case tcell.KeyEscape:
			if a.panel != PanelNone {
				a.panel = PanelNone
				return true
			}
			return false

		case tcell.KeyTab:
			a.panel = (a.panel + 1) % 3

		case tcell.KeyUp:
			a.mapView.Pan(0, -1)
		case tcell.KeyDown:
			a.mapView.Pan(0, 1)
		case tcell.KeyLeft:
			a.mapView.Pan(-1, 0)
		case tcell.KeyRight:
			a.mapView.Pan(1, 0)

		case tcell.KeyPgUp:
			a.diagView.ScrollUp()
		case tcell.KeyPgDn:
			a.diagView.ScrollDown()

		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false

			case '+', '=':
				a.mapView.ZoomIn()

			case '-', '_':
				a.mapView.ZoomOut()

			case 'i', 'I':
				a.mapView.CycleInset()
				debug.Log("inset mode %s", a.mapView.InsetMode())
			}
		}

	case *tcell.EventResize:
		a.handleResize()
		a.dirty = true
	}

	return true
}

// layoutPanels puts the panels in the lower-left corner above the status bar
func (a *App) layoutPanels(width, height int) {
	w := min(panelWidth, width)
	h := min(panelHeight, max(height-1, 0))
	a.infoView.UpdateDimensions(0, height-1-h, w, h)
	a.diagView.UpdateDimensions(0, height-1-h, w, h)
}

// handleResize handles terminal resize events
func (a *App) handleResize() {
	a.screen.Sync()
	width, height := a.screen.Size()

	a.mapView.UpdateDimensions(width, height)
	a.layoutPanels(width, height)
}

// cleanup performs cleanup before exit
func (a *App) cleanup() {
	close(a.quit)
	if a.screen != nil {
		a.screen.Fini()
	}
}
