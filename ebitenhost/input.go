package ebitenhost

import (
	"image"

	gb "github.com/esimov/gamebridge"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is the input state sampled once per tick.
type Input interface {
	// JustPressed and JustReleased report key transitions since the last tick.
	JustPressed(keys []ebiten.Key) []ebiten.Key
	JustReleased(keys []ebiten.Key) []ebiten.Key
	// Chars reports the characters typed since the last tick.
	Chars(runes []rune) []rune
	Mods() gb.Mod
	Cursor() image.Point
	ButtonPressed(b ebiten.MouseButton) bool
	ButtonReleased(b ebiten.MouseButton) bool
	// Wheel reports the vertical scroll offset; positive scrolls up.
	Wheel() float64
	Focused() bool
	Closing() bool
}

// ebitenInput reads the live ebiten input state.
type ebitenInput struct{}

func (ebitenInput) JustPressed(keys []ebiten.Key) []ebiten.Key {
	return inpututil.AppendJustPressedKeys(keys)
}

func (ebitenInput) JustReleased(keys []ebiten.Key) []ebiten.Key {
	return inpututil.AppendJustReleasedKeys(keys)
}

func (ebitenInput) Chars(runes []rune) []rune { return ebiten.AppendInputChars(runes) }

func (ebitenInput) Mods() gb.Mod {
	var mods gb.Mod
	for k, m := range modKeys {
		if ebiten.IsKeyPressed(k) {
			mods |= m
		}
	}
	return mods
}

func (ebitenInput) Cursor() image.Point {
	x, y := ebiten.CursorPosition()
	return image.Pt(x, y)
}

func (ebitenInput) ButtonPressed(b ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(b)
}

func (ebitenInput) ButtonReleased(b ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustReleased(b)
}

func (ebitenInput) Wheel() float64 {
	_, y := ebiten.Wheel()
	return y
}

func (ebitenInput) Focused() bool { return ebiten.IsFocused() }
func (ebitenInput) Closing() bool { return ebiten.IsWindowBeingClosed() }

var modKeys = map[ebiten.Key]gb.Mod{
	ebiten.KeyShiftLeft:    gb.KModLShift,
	ebiten.KeyShiftRight:   gb.KModRShift,
	ebiten.KeyControlLeft:  gb.KModLCtrl,
	ebiten.KeyControlRight: gb.KModRCtrl,
	ebiten.KeyAltLeft:      gb.KModLAlt,
	ebiten.KeyAltRight:     gb.KModRAlt,
	ebiten.KeyMetaLeft:     gb.KModLMeta,
	ebiten.KeyMetaRight:    gb.KModRMeta,
}

// mouseButtons pairs ebiten buttons with their button numbers.
var mouseButtons = []struct {
	eb  ebiten.MouseButton
	num int
}{
	{ebiten.MouseButtonLeft, gb.ButtonLeft},
	{ebiten.MouseButtonMiddle, gb.ButtonMiddle},
	{ebiten.MouseButtonRight, gb.ButtonRight},
}
