package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// program drives a dmenu-compatible menu over stdin/stdout. rofi answers
// with the row index; dmenu answers with the row text.
type program struct {
	name  string
	rofi  bool
	fuzzy bool
}

// NewRofiBackend returns a backend driving rofi in dmenu mode.
func NewRofiBackend() Backend {
	return &program{name: "rofi", rofi: true}
}

// NewDmenuBackend returns a backend driving plain dmenu.
func NewDmenuBackend() Backend {
	return &program{name: "dmenu"}
}

func (p *program) Capabilities() Capabilities {
	if !p.rofi {
		return Capabilities{}
	}
	return Capabilities{
		Icons:         true,
		Markup:        true,
		NonSelectable: true,
		IndexOutput:   true,
		MessageBar:    true,
		RowStates:     true,
	}
}

// SetFuzzyMatching enables rofi's fuzzy matching mode.
func (p *program) SetFuzzyMatching(enabled bool) {
	p.fuzzy = enabled
}

func (p *program) Show(prompt string, items []Item, message string) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, fmt.Errorf("palette: no items to show")
	}
	rows, input := p.encode(items)

	cmd := exec.Command(p.name, p.args(prompt, message, rows)...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	choice := strings.TrimSpace(string(out))
	switch {
	case err != nil && choice == "" && cancelled(err):
		return SelectResult{}, ErrCancelled
	case err != nil:
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return SelectResult{}, fmt.Errorf("%s failed: %s", p.name, msg)
		}
		return SelectResult{}, fmt.Errorf("%s failed: %w", p.name, err)
	case choice == "":
		return SelectResult{}, ErrCancelled
	}

	item, err := p.decode(choice, rows)
	if err != nil {
		return SelectResult{}, err
	}
	return SelectResult{Item: item}, nil
}

// args builds the command line. rows must be the encoded rows so indices
// line up with what the program shows.
func (p *program) args(prompt, message string, rows []Item) []string {
	if !p.rofi {
		args := []string{"-i", "-l", "20"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}

	args := []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	if p.fuzzy {
		args = append(args, "-matching", "fuzzy")
	}

	var active, urgent []string
	selected := -1
	for i, it := range rows {
		if it.IsHeader {
			continue
		}
		if selected < 0 || (it.IsActive && !rows[selected].IsActive) {
			selected = i
		}
		if it.IsActive {
			active = append(active, strconv.Itoa(i))
		}
		if it.IsUrgent {
			urgent = append(urgent, strconv.Itoa(i))
		}
	}
	if len(active) > 0 {
		args = append(args, "-a", strings.Join(active, ","))
	}
	if len(urgent) > 0 {
		args = append(args, "-u", strings.Join(urgent, ","))
	}
	if selected >= 0 {
		args = append(args, "-selected-row", strconv.Itoa(selected))
	}
	if message != "" {
		args = append(args, "-mesg", message)
	}
	return args
}

// encode returns the rows as shown and the program's stdin. For dmenu,
// repeated labels get a " (n)" suffix so the answer is unambiguous.
func (p *program) encode(items []Item) ([]Item, string) {
	rows := make([]Item, len(items))
	lines := make([]string, len(items))
	seen := make(map[string]int)
	for i, it := range items {
		it.Label = oneLine(it.Label)
		if !p.rofi && !it.IsHeader && it.Label != "" {
			if n := seen[it.Label]; n > 0 {
				it.Label = fmt.Sprintf("%s (%d)", it.Label, n+1)
			}
			seen[oneLine(items[i].Label)]++
		}
		rows[i] = it
		if p.rofi {
			lines[i] = rofiRow(it)
		} else {
			lines[i] = it.Label
		}
	}
	return rows, strings.Join(lines, "\n")
}

// rofiRow renders one row with pango markup and the rofi row properties
// that follow a single NUL as \x1f separated key/value pairs.
func rofiRow(it Item) string {
	text := html.EscapeString(it.Label)
	if it.IsHeader {
		text = "<b>" + text + "</b>"
	}

	var props []string
	if it.IsHeader {
		props = append(props, "nonselectable", "true")
	}
	if it.Icon != "" {
		props = append(props, "icon", propValue(it.Icon))
	}
	if it.Meta != "" {
		props = append(props, "meta", propValue(it.Meta))
	}
	if len(props) == 0 {
		return text
	}
	return text + "\x00" + strings.Join(props, "\x1f")
}

func (p *program) decode(choice string, rows []Item) (Item, error) {
	if p.rofi {
		if i, err := strconv.Atoi(choice); err == nil {
			if i < 0 || i >= len(rows) {
				return Item{}, fmt.Errorf("palette: index %d out of range", i)
			}
			return rows[i], nil
		}
	}
	for _, it := range rows {
		if it.Label == choice {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", choice)
}

func oneLine(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

func propValue(s string) string {
	return oneLine(strings.NewReplacer("\x00", " ", "\x1f", " ").Replace(s))
}

// cancelled reports the exit statuses menus use for "nothing chosen":
// 1 for Escape and 130 for Ctrl+C.
func cancelled(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	code := exitErr.ExitCode()
	return code == 1 || code == 130
}
