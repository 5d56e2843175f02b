// Package bar models the top bar: which segments it shows, where they sit
// and what clicking them does.
package bar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/wm"
)

const (
	leftPadding    = 10
	tagSpacing     = 5
	separatorGap   = 20
	separatorWidth = 10
	layoutGap      = 20
	rightPadding   = 10
	titleReserve   = 200
	minTextWidth   = 20

	// MaxTitleRunes is the longest title shown before truncation.
	MaxTitleRunes = 50
)

// Kind identifies what a segment shows.
type Kind int

const (
	KindTag Kind = iota
	KindSeparator
	KindLayout
	KindTitle
	KindClock
)

// Segment is one positioned piece of bar text.
type Segment struct {
	Kind   Kind   `json:"kind"`
	Text   string `json:"text"`
	X      int    `json:"x"`
	Width  int    `json:"width"`
	Action string `json:"action,omitempty"` // empty when not clickable

	Tag      wm.TagID `json:"tag,omitempty"`
	Current  bool     `json:"current,omitempty"`
	Occupied bool     `json:"occupied,omitempty"`
}

// Measurer returns the pixel width of text.
type Measurer func(text string) int

// EstimateWidth approximates text width from the font size.
func EstimateWidth(fontSize int) Measurer {
	charWidth := fontSize * 6 / 10
	return func(text string) int {
		return max(utf8.RuneCountInString(text)*charWidth, minTextWidth)
	}
}

// LayoutName returns the label shown for a layout type.
func LayoutName(t config.LayoutType) string {
	switch t {
	case config.LayoutTiling:
		return "Tiling"
	case config.LayoutFloating:
		return "Floating"
	case config.LayoutMonocle:
		return "Monocle"
	}
	return string(t)
}

// TagLabel returns "[name]" for the current tag, "(name)" for an occupied
// one, and the bare name otherwise.
func TagLabel(name string, current, occupied bool) string {
	switch {
	case current:
		return "[" + name + "]"
	case occupied:
		return "(" + name + ")"
	}
	return name
}

// Truncate shortens s to MaxTitleRunes, ending in "..." when cut.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxTitleRunes-3]) + "..."
}

// Build lays out the bar for a snapshot across screenWidth pixels.
func Build(s wm.State, screenWidth int, measure Measurer, now time.Time) []Segment {
	var segs []Segment
	x := leftPadding

	for _, t := range s.Tags {
		current := t.ID == s.Current
		occupied := len(t.Windows) > 0
		text := TagLabel(t.Name, current, occupied)
		w := measure(text)
		segs = append(segs, Segment{
			Kind:     KindTag,
			Text:     text,
			X:        x,
			Width:    w,
			Action:   "switch_tag " + strconv.Itoa(t.ID.Number()),
			Tag:      t.ID,
			Current:  current,
			Occupied: occupied,
		})
		x += w + tagSpacing
	}

	x += separatorGap
	segs = append(segs, Segment{Kind: KindSeparator, Text: "|", X: x, Width: separatorWidth})
	x += separatorWidth + tagSpacing

	if len(s.Tags) > 0 {
		text := LayoutName(s.CurrentTag().Layout.Type)
		w := measure(text)
		segs = append(segs, Segment{Kind: KindLayout, Text: text, X: x, Width: w, Action: "cycle_layout"})
		x += w + layoutGap
	}

	if s.Focused != nil {
		text := Truncate(s.Focused.Title)
		w := min(measure(text), max(screenWidth-x-titleReserve, 0))
		segs = append(segs, Segment{Kind: KindTitle, Text: text, X: x, Width: w})
	}

	clock := now.Format("15:04")
	w := measure(clock)
	segs = append(segs, Segment{Kind: KindClock, Text: clock, X: screenWidth - w - rightPadding, Width: w})
	return segs
}

// Hit returns the clickable segment covering x.
func Hit(segs []Segment, x int) (Segment, bool) {
	for _, seg := range segs {
		if seg.Action != "" && x >= seg.X && x < seg.X+seg.Width {
			return seg, true
		}
	}
	return Segment{}, false
}

// ParseColor parses "#RRGGBB" into a 24-bit pixel value.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("color %q: expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
