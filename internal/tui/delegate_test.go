package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func TestTreeDelegate_RowFillsAndTruncates(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	d := newTreeDelegate()

	short := d.renderRow(20, d.normal, "abc")
	if got := xansi.StringWidth(short); got != 20 {
		t.Fatalf("row must pad to full width, got %d", got)
	}

	long := d.renderRow(10, d.normal, strings.Repeat("x", 40))
	if got := xansi.StringWidth(long); got != 10 {
		t.Fatalf("row must truncate to width, got %d", got)
	}
}

func TestTreeRowItem_TitleCarriesTwistyAndMarker(t *testing.T) {
	setGlyphs(glyphSetASCII)
	defer setGlyphs(glyphSetUnicode)

	header := treeRowItem{row: treeRow{kind: rowScene, id: "C01", label: "Rooftop", depth: 1, hasChildren: true}}
	if got := header.Title(); !strings.Contains(got, "> Rooftop") {
		t.Fatalf("collapsed header: %q", got)
	}

	shot := treeRowItem{row: treeRow{kind: rowShot, id: "C01.01", label: "Shot C01.01", depth: 2}, active: true}
	if got := shot.Title(); !strings.HasPrefix(got, "*") {
		t.Fatalf("active shot marker: %q", got)
	}
	if header.FilterValue() != "Rooftop" {
		t.Fatalf("filter value: %q", header.FilterValue())
	}
}
