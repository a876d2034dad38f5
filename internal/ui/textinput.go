package ui

import (
	"image"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// TextInput is a single-line editable text box with cursor support.
type TextInput struct {
	Rect    image.Rectangle
	Style   TextInputStyle
	Text    string
	cursor  int
	focused bool
	blink   int
	repeat  map[ebiten.Key]int
	chars   []rune
}

// NewTextInput constructs a text input with the given rectangle and style.
func NewTextInput(r image.Rectangle, style TextInputStyle) *TextInput {
	return &TextInput{Rect: r, Style: style, repeat: make(map[ebiten.Key]int)}
}

// Focused reports whether the input currently has focus.
func (t *TextInput) Focused() bool { return t.focused }

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() {
	t.focused = true
	t.blink = 0
}

// SetText sets the current text and moves the cursor to the end.
func (t *TextInput) SetText(s string) {
	t.Text = s
	t.cursor = utf8.RuneCountInString(s)
}

// Value returns the current text value.
func (t *TextInput) Value() string { return t.Text }

// Update processes mouse and keyboard input and reports whether the text
// changed. A primary press inside the box focuses it; outside, it blurs.
func (t *TextInput) Update(pressed bool, mx, my int) bool {
	if pressed {
		t.focused = image.Pt(mx, my).In(t.Rect)
	}
	if !t.focused {
		t.blink = 0
		return false
	}
	t.blink = (t.blink + 1) % 60

	changed := false
	t.chars = inputChars(t.chars[:0])
	for _, r := range t.chars {
		if r == '\n' || r == '\r' {
			continue
		}
		bi := byteIndex(t.Text, t.cursor)
		t.Text = t.Text[:bi] + string(r) + t.Text[bi:]
		t.cursor++
		changed = true
	}

	if t.keyRepeat(ebiten.KeyBackspace) && t.cursor > 0 {
		bi := byteIndex(t.Text, t.cursor)
		prev := byteIndex(t.Text, t.cursor-1)
		t.Text = t.Text[:prev] + t.Text[bi:]
		t.cursor--
		changed = true
	}
	if t.keyRepeat(ebiten.KeyLeft) && t.cursor > 0 {
		t.cursor--
	}
	if t.keyRepeat(ebiten.KeyRight) && t.cursor < utf8.RuneCountInString(t.Text) {
		t.cursor++
	}
	return changed
}

func (t *TextInput) keyRepeat(k ebiten.Key) bool {
	if isKeyPressed(k) {
		t.repeat[k]++
		d := t.repeat[k]
		if d == 1 || d > 15 && (d-15)%3 == 0 {
			return true
		}
	} else {
		t.repeat[k] = 0
	}
	return false
}

// byteIndex returns the byte index of rune i in s.
func byteIndex(s string, i int) int {
	if i <= 0 {
		return 0
	}
	bi := 0
	for n := 0; n < i && bi < len(s); n++ {
		_, sz := utf8.DecodeRuneInString(s[bi:])
		bi += sz
	}
	return bi
}

// visibleText returns the tail of the text that fits in the box and the
// index of its first rune.
func (t *TextInput) visibleText() (string, int) {
	maxRunes := (t.Rect.Dx() - textPad*2) / debugCharW
	start := 0
	if total := utf8.RuneCountInString(t.Text); total > maxRunes {
		start = total - maxRunes
	}
	return t.Text[byteIndex(t.Text, start):], start
}

// Draw renders the box, the visible text and the blinking cursor.
func (t *TextInput) Draw(dst *ebiten.Image) {
	t.Style.Draw(dst, t.Rect, t.focused)
	txt, start := t.visibleText()
	ebitenutil.DebugPrintAt(dst, txt, t.Rect.Min.X+textPad, t.Rect.Min.Y+textPad)
	if t.focused && t.blink < 30 {
		cx := t.Rect.Min.X + textPad + debugCharW*(t.cursor-start)
		cy := t.Rect.Min.Y + textPad
		drawLine(dst, cx, cy, cx, cy+debugCharH-2, colText)
	}
}
