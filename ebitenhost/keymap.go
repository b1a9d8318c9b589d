package ebitenhost

import (
	gb "github.com/esimov/gamebridge"
	"github.com/hajimehoshi/ebiten/v2"
)

var keyCodes = map[ebiten.Key]gb.Key{
	ebiten.KeyBackspace:    gb.KBackspace,
	ebiten.KeyTab:          gb.KTab,
	ebiten.KeyEnter:        gb.KReturn,
	ebiten.KeyPause:        gb.KPause,
	ebiten.KeyEscape:       gb.KEscape,
	ebiten.KeySpace:        gb.KSpace,
	ebiten.KeyQuote:        gb.KQuote,
	ebiten.KeyComma:        gb.KComma,
	ebiten.KeyMinus:        gb.KMinus,
	ebiten.KeyPeriod:       gb.KPeriod,
	ebiten.KeySlash:        gb.KSlash,
	ebiten.KeySemicolon:    gb.KSemicolon,
	ebiten.KeyEqual:        gb.KEquals,
	ebiten.KeyBracketLeft:  gb.KLeftBracket,
	ebiten.KeyBackslash:    gb.KBackslash,
	ebiten.KeyBracketRight: gb.KRightBracket,
	ebiten.KeyBackquote:    gb.KBackquote,
	ebiten.KeyDelete:       gb.KDelete,

	ebiten.KeyNumpadEnter: gb.KKPEnter,
	ebiten.KeyArrowUp:     gb.KUp,
	ebiten.KeyArrowDown:   gb.KDown,
	ebiten.KeyArrowRight:  gb.KRight,
	ebiten.KeyArrowLeft:   gb.KLeft,
	ebiten.KeyInsert:      gb.KInsert,
	ebiten.KeyHome:        gb.KHome,
	ebiten.KeyEnd:         gb.KEnd,
	ebiten.KeyPageUp:      gb.KPageUp,
	ebiten.KeyPageDown:    gb.KPageDown,

	ebiten.KeyNumLock:      gb.KNumLock,
	ebiten.KeyCapsLock:     gb.KCapsLock,
	ebiten.KeyScrollLock:   gb.KScrollLock,
	ebiten.KeyShiftRight:   gb.KRShift,
	ebiten.KeyShiftLeft:    gb.KLShift,
	ebiten.KeyControlRight: gb.KRCtrl,
	ebiten.KeyControlLeft:  gb.KLCtrl,
	ebiten.KeyAltRight:     gb.KRAlt,
	ebiten.KeyAltLeft:      gb.KLAlt,
	ebiten.KeyMetaRight:    gb.KRMeta,
	ebiten.KeyMetaLeft:     gb.KLMeta,
	ebiten.KeyContextMenu:  gb.KMenu,
}

var (
	digitKeys = []ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	}
	functionKeys = []ebiten.Key{
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5,
		ebiten.KeyF6, ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10,
		ebiten.KeyF11, ebiten.KeyF12, ebiten.KeyF13, ebiten.KeyF14, ebiten.KeyF15,
	}
)

func init() {
	for i := 0; i < 26; i++ {
		keyCodes[ebiten.KeyA+ebiten.Key(i)] = gb.KA + gb.Key(i)
	}
	for i, k := range digitKeys {
		keyCodes[k] = gb.K0 + gb.Key(i)
	}
	for i, k := range functionKeys {
		keyCodes[k] = gb.KF1 + gb.Key(i)
	}
}

// keyCode returns the key code of an ebiten key.
func keyCode(k ebiten.Key) (gb.Key, bool) {
	code, ok := keyCodes[k]
	return code, ok
}

// keyRune returns the character a key press types, or 0 for keys without text.
func keyRune(k gb.Key, mods gb.Mod) rune {
	switch {
	case k >= gb.KA && k <= gb.KZ:
		r := rune(k)
		if mods&gb.KModCtrl != 0 {
			return r - 'a' + 1
		}
		if (mods&gb.KModShift != 0) != (mods&gb.KModCaps != 0) {
			return r - 'a' + 'A'
		}
		return r
	case k == gb.KDelete, k == gb.KBackspace, k == gb.KTab, k == gb.KEscape:
		return rune(k)
	case k == gb.KReturn, k == gb.KKPEnter:
		return '\r'
	case k >= gb.KSpace && k < gb.KDelete:
		return rune(k)
	}
	return 0
}
