package main

import (
	"fmt"
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"hoverplayer/pkg/html"
	"hoverplayer/pkg/session"
)

// pageView shows a session's frame and forwards pointer and wheel input to
// its window.
type pageView struct {
	widget.BaseWidget

	img      *canvas.Image
	onStatus func(string)

	mu   sync.Mutex
	sess *session.Session
}

var (
	_ desktop.Hoverable = (*pageView)(nil)
	_ fyne.Scrollable   = (*pageView)(nil)
)

func newPageView(onStatus func(string)) *pageView {
	v := &pageView{
		img:      canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
		onStatus: onStatus,
	}
	v.img.FillMode = canvas.ImageFillStretch
	v.img.ScaleMode = canvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

func (v *pageView) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

// setSession replaces the displayed session, closing the previous one.
func (v *pageView) setSession(s *session.Session) {
	v.mu.Lock()
	old := v.sess
	v.sess = s
	v.mu.Unlock()
	if old != nil {
		old.Close()
	}

	size := v.Size()
	if size.Width > 0 && size.Height > 0 {
		s.Resize(float64(size.Width), float64(size.Height))
	}
	v.redraw()
	v.status(fmt.Sprintf("%d candidates", len(s.Coordinator.Candidates())))
}

// hoverChanged is the session's change callback.
func (v *pageView) hoverChanged(_, next *html.Node) {
	v.redraw()
	if next == nil {
		v.status("")
		return
	}
	v.mu.Lock()
	s := v.sess
	v.mu.Unlock()
	if s == nil {
		return
	}
	if info := s.Coordinator.Info(); info != nil {
		v.status(fmt.Sprintf("<%s> top %.0f left %.0f line %dpx", next.TagName, info.Top, info.Left, info.HeightOfFirstLine))
	}
}

func (v *pageView) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	if s := v.session(); s != nil && size.Width > 0 && size.Height > 0 {
		s.Resize(float64(size.Width), float64(size.Height))
		v.redraw()
	}
}

func (v *pageView) MouseIn(ev *desktop.MouseEvent) {
	v.MouseMoved(ev)
}

func (v *pageView) MouseMoved(ev *desktop.MouseEvent) {
	if s := v.session(); s != nil {
		s.Window.MoveMouse(float64(ev.Position.X), float64(ev.Position.Y))
	}
}

func (v *pageView) MouseOut() {}

func (v *pageView) Scrolled(ev *fyne.ScrollEvent) {
	s := v.session()
	if s == nil {
		return
	}
	s.Window.ScrollBy(-float64(ev.Scrolled.DX), -float64(ev.Scrolled.DY))
	// The pointer has not moved relative to the viewport, but the page has.
	s.Window.MoveMouse(float64(ev.Position.X), float64(ev.Position.Y))
	v.redraw()
}

func (v *pageView) redraw() {
	s := v.session()
	if s == nil {
		return
	}
	v.img.Image = s.Frame()
	v.img.Refresh()
}

func (v *pageView) session() *session.Session {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sess
}

func (v *pageView) status(text string) {
	if v.onStatus != nil {
		v.onStatus(text)
	}
}
