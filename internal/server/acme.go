package server

import (
	"fmt"

	"9fans.net/go/acme"
	"github.com/cptaffe/paintgrid/paint"
)

// AcmeSink mirrors the rendered grid into an acme window, one line per row.
type AcmeSink struct {
	win *acme.Win
}

// NewAcmeSink creates a fresh acme window named name.
func NewAcmeSink(name string) (*AcmeSink, error) {
	w, err := acme.New()
	if err != nil {
		return nil, fmt.Errorf("acme new window: %w", err)
	}
	if err := w.Name("%s", name); err != nil {
		w.CloseFiles()
		return nil, fmt.Errorf("acme name window: %w", err)
	}
	return &AcmeSink{win: w}, nil
}

// Show replaces the window body.
func (a *AcmeSink) Show(rows [][]paint.Color) error {
	return a.replace(",", paint.Format(rows))
}

// ShowAt replaces lines r0+1 through r1 of the body (acme lines are
// 1-based).
func (a *AcmeSink) ShowAt(rows [][]paint.Color, r0, r1 int) error {
	return a.replace(fmt.Sprintf("%d,%d", r0+1, r1), formatAt(rows, r0, r1))
}

func (a *AcmeSink) replace(addr, text string) error {
	if err := a.win.Addr("%s", addr); err != nil {
		return err
	}
	if _, err := a.win.Write("data", []byte(text)); err != nil {
		return err
	}
	return a.win.Ctl("clean")
}

// Close deletes the window.
func (a *AcmeSink) Close() error {
	err := a.win.Del(true)
	a.win.CloseFiles()
	return err
}
