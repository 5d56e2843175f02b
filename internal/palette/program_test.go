package palette

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRofiRow_Properties(t *testing.T) {
	out := rofiRow(Item{
		Label:    "Header",
		IsHeader: true,
		Icon:     "folder",
		Meta:     "meta",
	})

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	want := "<b>Header</b>\x00nonselectable\x1ftrue\x1ficon\x1ffolder\x1fmeta\x1fmeta"
	if out != want {
		t.Fatalf("rofiRow = %q, want %q", out, want)
	}
}

func TestRofiRow_EscapesTitles(t *testing.T) {
	if out := rofiRow(Item{Label: "a <b> & c"}); out != "a &lt;b&gt; &amp; c" {
		t.Fatalf("expected escaped label, got %q", out)
	}
	if out := rofiRow(Item{Label: "x", Meta: "a\x1fb\x00c"}); out != "x\x00meta\x1fa b c" {
		t.Fatalf("expected separators stripped from meta, got %q", out)
	}
}

func TestRofiArgs(t *testing.T) {
	p := NewRofiBackend().(*program)
	p.SetFuzzyMatching(true)

	rows, _ := p.encode([]Item{
		{Label: "tags", IsHeader: true},
		{Label: "a"},
		{Label: "b", IsActive: true},
		{Label: "c", IsUrgent: true},
	})
	args := p.args("tagwm", "tag 1", rows)

	for _, pair := range [][2]string{
		{"-format", "i"},
		{"-p", "tagwm"},
		{"-matching", "fuzzy"},
		{"-a", "2"},
		{"-u", "3"},
		{"-selected-row", "2"},
		{"-mesg", "tag 1"},
	} {
		if !containsArgs(args, pair[0], pair[1]) {
			t.Fatalf("expected %s %s in args, got %v", pair[0], pair[1], args)
		}
	}
	if !containsArg(args, "-no-custom") {
		t.Fatalf("expected -no-custom in args, got %v", args)
	}
}

func TestRofiArgs_SelectsFirstSelectableRow(t *testing.T) {
	p := NewRofiBackend().(*program)
	rows, _ := p.encode([]Item{{Label: "h", IsHeader: true}, {Label: "a"}, {Label: "b"}})
	if args := p.args("", "", rows); !containsArgs(args, "-selected-row", "1") {
		t.Fatalf("expected -selected-row 1, got %v", args)
	}
}

func TestDmenuArgs(t *testing.T) {
	p := NewDmenuBackend().(*program)
	rows, _ := p.encode([]Item{{Label: "a", IsActive: true}})
	args := p.args("tagwm", "ignored", rows)
	if !containsArgs(args, "-p", "tagwm") || containsArg(args, "-a") || containsArg(args, "-mesg") {
		t.Fatalf("unexpected dmenu args %v", args)
	}
}

func TestEncode_DmenuDisambiguatesDuplicateLabels(t *testing.T) {
	p := NewDmenuBackend().(*program)
	items := []Item{
		{Label: "Dup", Action: "a"},
		{Label: "Dup", Action: "b"},
		{Label: "two\nlines", Action: "c"},
	}

	rows, input := p.encode(items)
	if diff := cmp.Diff("Dup\nDup (2)\ntwo lines", input); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
	if items[1].Label != "Dup" {
		t.Fatalf("encode must not modify the caller's items")
	}
	got, err := p.decode("Dup (2)", rows)
	if err != nil || got.Action != "b" {
		t.Fatalf("decode = %+v, %v; want action b", got, err)
	}
}

func TestEncode_RofiKeepsDuplicateLabels(t *testing.T) {
	p := NewRofiBackend().(*program)
	rows, _ := p.encode([]Item{{Label: "Dup"}, {Label: "Dup"}})
	if rows[0].Label != "Dup" || rows[1].Label != "Dup" {
		t.Fatalf("expected labels unchanged for rofi, got %#v", rows)
	}
}

func TestDecode(t *testing.T) {
	rows := []Item{{Label: "a", Action: "a"}, {Label: "7", Action: "seven"}}

	rofi := NewRofiBackend().(*program)
	if got, err := rofi.decode("1", rows); err != nil || got.Action != "seven" {
		t.Fatalf("rofi decode index = %+v, %v", got, err)
	}
	if _, err := rofi.decode("5", rows); err == nil {
		t.Fatalf("expected out of range error")
	}

	dmenu := NewDmenuBackend().(*program)
	if got, err := dmenu.decode("7", rows); err != nil || got.Action != "seven" {
		t.Fatalf("dmenu decode label = %+v, %v", got, err)
	}
	if _, err := dmenu.decode("zzz", rows); err == nil {
		t.Fatalf("expected unknown selection error")
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend("wofi"); err == nil || !strings.Contains(err.Error(), "unknown palette backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, a string, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
