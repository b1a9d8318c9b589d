package gamebridge

// Key is a key symbol code. Printable keys use their lowercase ASCII value.
type Key int

// Key codes.
const (
	KUnknown      Key = 0
	KBackspace    Key = 8
	KTab          Key = 9
	KClear        Key = 12
	KReturn       Key = 13
	KPause        Key = 19
	KEscape       Key = 27
	KSpace        Key = 32
	KExclaim      Key = 33
	KQuoteDbl     Key = 34
	KHash         Key = 35
	KDollar       Key = 36
	KAmpersand    Key = 38
	KQuote        Key = 39
	KLeftParen    Key = 40
	KRightParen   Key = 41
	KAsterisk     Key = 42
	KPlus         Key = 43
	KComma        Key = 44
	KMinus        Key = 45
	KPeriod       Key = 46
	KSlash        Key = 47
	K0            Key = 48
	K1            Key = 49
	K2            Key = 50
	K3            Key = 51
	K4            Key = 52
	K5            Key = 53
	K6            Key = 54
	K7            Key = 55
	K8            Key = 56
	K9            Key = 57
	KColon        Key = 58
	KSemicolon    Key = 59
	KLess         Key = 60
	KEquals       Key = 61
	KGreater      Key = 62
	KQuestion     Key = 63
	KAt           Key = 64
	KLeftBracket  Key = 91
	KBackslash    Key = 92
	KRightBracket Key = 93
	KCaret        Key = 94
	KUnderscore   Key = 95
	KBackquote    Key = 96
	KA            Key = 97
	KB            Key = 98
	KC            Key = 99
	KD            Key = 100
	KE            Key = 101
	KF            Key = 102
	KG            Key = 103
	KH            Key = 104
	KI            Key = 105
	KJ            Key = 106
	KK            Key = 107
	KL            Key = 108
	KM            Key = 109
	KN            Key = 110
	KO            Key = 111
	KP            Key = 112
	KQ            Key = 113
	KR            Key = 114
	KS            Key = 115
	KT            Key = 116
	KU            Key = 117
	KV            Key = 118
	KW            Key = 119
	KX            Key = 120
	KY            Key = 121
	KZ            Key = 122
	KDelete       Key = 127

	KKPEnter  Key = 271
	KUp       Key = 273
	KDown     Key = 274
	KRight    Key = 275
	KLeft     Key = 276
	KInsert   Key = 277
	KHome     Key = 278
	KEnd      Key = 279
	KPageUp   Key = 280
	KPageDown Key = 281
	KF1       Key = 282
	KF2       Key = 283
	KF3       Key = 284
	KF4       Key = 285
	KF5       Key = 286
	KF6       Key = 287
	KF7       Key = 288
	KF8       Key = 289
	KF9       Key = 290
	KF10      Key = 291
	KF11      Key = 292
	KF12      Key = 293
	KF13      Key = 294
	KF14      Key = 295
	KF15      Key = 296

	KNumLock    Key = 300
	KCapsLock   Key = 301
	KScrollLock Key = 302
	KRShift     Key = 303
	KLShift     Key = 304
	KRCtrl      Key = 305
	KLCtrl      Key = 306
	KRAlt       Key = 307
	KLAlt       Key = 308
	KRMeta      Key = 309
	KLMeta      Key = 310
	KLSuper     Key = 311
	KRSuper     Key = 312
	KMenu       Key = 319
)

// Mod is a bit set of keyboard modifiers held while an event was generated.
type Mod int

const (
	KModNone   Mod = 0x0000
	KModLShift Mod = 0x0001
	KModRShift Mod = 0x0002
	KModLCtrl  Mod = 0x0040
	KModRCtrl  Mod = 0x0080
	KModLAlt   Mod = 0x0100
	KModRAlt   Mod = 0x0200
	KModLMeta  Mod = 0x0400
	KModRMeta  Mod = 0x0800
	KModNum    Mod = 0x1000
	KModCaps   Mod = 0x2000
	KModMode   Mod = 0x4000

	KModShift = KModLShift | KModRShift
	KModCtrl  = KModLCtrl | KModRCtrl
	KModAlt   = KModLAlt | KModRAlt
	KModMeta  = KModLMeta | KModRMeta
)

// Mouse buttons as reported in MouseButtonDown and MouseButtonUp events.
const (
	ButtonLeft      = 1
	ButtonMiddle    = 2
	ButtonRight     = 3
	ButtonWheelUp   = 4
	ButtonWheelDown = 5
)

// Focus states carried by ActiveEvent.
const (
	AppMouseFocus = 1
	AppInputFocus = 2
	AppActive     = 4
)
