package gamebridge

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"gioui.org/io/key"
)

var namedKeys = map[string]Key{
	key.NameLeftArrow:      KLeft,
	key.NameRightArrow:     KRight,
	key.NameUpArrow:        KUp,
	key.NameDownArrow:      KDown,
	key.NameReturn:         KReturn,
	key.NameEnter:          KKPEnter,
	key.NameEscape:         KEscape,
	key.NameHome:           KHome,
	key.NameEnd:            KEnd,
	key.NameDeleteBackward: KBackspace,
	key.NameDeleteForward:  KDelete,
	key.NamePageUp:         KPageUp,
	key.NamePageDown:       KPageDown,
	key.NameTab:            KTab,
	key.NameSpace:          KSpace,
	key.NameCtrl:           KLCtrl,
	key.NameShift:          KLShift,
	key.NameAlt:            KLAlt,
	key.NameSuper:          KLSuper,
	key.NameCommand:        KLMeta,
	key.NameF1:             KF1,
	key.NameF2:             KF2,
	key.NameF3:             KF3,
	key.NameF4:             KF4,
	key.NameF5:             KF5,
	key.NameF6:             KF6,
	key.NameF7:             KF7,
	key.NameF8:             KF8,
	key.NameF9:             KF9,
	key.NameF10:            KF10,
	key.NameF11:            KF11,
	key.NameF12:            KF12,
}

// keyText is the character produced by the non-printable keys that have one.
var keyText = map[Key]rune{
	KReturn:    '\r',
	KKPEnter:   '\r',
	KTab:       '\t',
	KSpace:     ' ',
	KBackspace: '\b',
	KEscape:    0x1b,
	KDelete:    0x7f,
}

// translateKey maps a Gio key name and modifier set to a key code and the
// character it produces. Letters always map to their lowercase code; the
// character is uppercase while shift is held.
func translateKey(name string, mods key.Modifiers) (Key, rune, error) {
	if k, ok := namedKeys[name]; ok {
		return k, keyText[k], nil
	}

	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || size != len(name) {
		return KUnknown, 0, fmt.Errorf("%w: %q", ErrUnmappedKey, name)
	}

	switch {
	case unicode.IsLetter(r) && r < utf8.RuneSelf:
		lower := unicode.ToLower(r)
		text := lower
		switch {
		case mods.Contain(key.ModCtrl):
			text = lower - 'a' + 1
		case mods.Contain(key.ModShift):
			text = unicode.ToUpper(r)
		}
		return Key(lower), text, nil
	case r < utf8.RuneSelf && unicode.IsPrint(r):
		return Key(r), r, nil
	case unicode.IsPrint(r):
		// Non-ASCII characters have no key code but still carry text.
		return KUnknown, r, nil
	}
	return KUnknown, 0, fmt.Errorf("%w: %q", ErrUnmappedKey, name)
}

func translateMods(mods key.Modifiers) Mod {
	var m Mod
	if mods.Contain(key.ModShift) {
		m |= KModLShift
	}
	if mods.Contain(key.ModCtrl) {
		m |= KModLCtrl
	}
	if mods.Contain(key.ModAlt) {
		m |= KModLAlt
	}
	if mods.Contain(key.ModCommand) {
		m |= KModLMeta
	}
	if mods.Contain(key.ModSuper) {
		m |= KModRMeta
	}
	return m
}
