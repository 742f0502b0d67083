package inject

import "unicode"

// Keystroke is one synthetic key press: a Linux input-event key code plus
// whether left shift must be held around it.
type Keystroke struct {
	Code  int
	Shift bool
}

// Linux input-event key codes for the US layout subset we emit.
const (
	key1 = 2
	key2 = 3
	key3 = 4
	key4 = 5
	key5 = 6
	key6 = 7
	key7 = 8
	key8 = 9
	key9 = 10
	key0 = 11

	keyMinus      = 12
	keyEqual      = 13
	keyQ          = 16
	keyW          = 17
	keyE          = 18
	keyR          = 19
	keyT          = 20
	keyY          = 21
	keyU          = 22
	keyI          = 23
	keyO          = 24
	keyP          = 25
	keyLeftBrace  = 26
	keyRightBrace = 27
	keyA          = 30
	keyS          = 31
	keyD          = 32
	keyF          = 33
	keyG          = 34
	keyH          = 35
	keyJ          = 36
	keyK          = 37
	keyL          = 38
	keySemicolon  = 39
	keyApostrophe = 40
	keyGrave      = 41
	keyBackslash  = 43
	keyZ          = 44
	keyX          = 45
	keyC          = 46
	keyV          = 47
	keyB          = 48
	keyN          = 49
	keyM          = 50
	keyComma      = 51
	keyDot        = 52
	keySlash      = 53
	keySpace      = 57
)

var plainKeys = map[rune]int{
	'a': keyA, 'b': keyB, 'c': keyC, 'd': keyD, 'e': keyE,
	'f': keyF, 'g': keyG, 'h': keyH, 'i': keyI, 'j': keyJ,
	'k': keyK, 'l': keyL, 'm': keyM, 'n': keyN, 'o': keyO,
	'p': keyP, 'q': keyQ, 'r': keyR, 's': keyS, 't': keyT,
	'u': keyU, 'v': keyV, 'w': keyW, 'x': keyX, 'y': keyY,
	'z': keyZ,

	'0': key0, '1': key1, '2': key2, '3': key3, '4': key4,
	'5': key5, '6': key6, '7': key7, '8': key8, '9': key9,

	' ': keySpace, '.': keyDot, ',': keyComma,
	'-': keyMinus, '=': keyEqual,
	'[': keyLeftBrace, ']': keyRightBrace,
	';': keySemicolon, '\'': keyApostrophe,
	'\\': keyBackslash, '/': keySlash,
	'`': keyGrave,
}

// Symbols reached by holding shift over a base key.
var shiftedKeys = map[rune]int{
	'!': key1, '@': key2, '#': key3, '$': key4, '%': key5,
	'^': key6, '&': key7, '*': key8, '(': key9, ')': key0,
	'_': keyMinus, '+': keyEqual,
	'{': keyLeftBrace, '}': keyRightBrace,
	':': keySemicolon, '"': keyApostrophe,
	'|': keyBackslash, '?': keySlash,
	'~': keyGrave,
	'<': keyComma, '>': keyDot,
}

// Resolve maps a character onto its keystroke. The second return value is
// false for characters outside the supported ASCII set; callers skip those.
func Resolve(r rune) (Keystroke, bool) {
	if code, ok := shiftedKeys[r]; ok {
		return Keystroke{Code: code, Shift: true}, true
	}
	if unicode.IsUpper(r) && r <= unicode.MaxASCII {
		if code, ok := plainKeys[unicode.ToLower(r)]; ok {
			return Keystroke{Code: code, Shift: true}, true
		}
		return Keystroke{}, false
	}
	if code, ok := plainKeys[r]; ok {
		return Keystroke{Code: code}, true
	}
	return Keystroke{}, false
}
