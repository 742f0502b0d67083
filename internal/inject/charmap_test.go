package inject

import "testing"

// decode inverts a keystroke back to its character using the same tables,
// proving the emitted event sequence reconstructs the original text.
func decode(stroke Keystroke) (rune, bool) {
	if stroke.Shift {
		for r, code := range shiftedKeys {
			if code == stroke.Code {
				return r, true
			}
		}
		for r, code := range plainKeys {
			if code == stroke.Code && r >= 'a' && r <= 'z' {
				return r - 'a' + 'A', true
			}
		}
		return 0, false
	}
	for r, code := range plainKeys {
		if code == stroke.Code {
			return r, true
		}
	}
	return 0, false
}

func TestResolveRoundTrip(t *testing.T) {
	t.Parallel()

	supported := "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		" .,-=[];'\\/`" +
		"!@#$%^&*()_+{}:\"|?~<>"

	for _, r := range supported {
		stroke, ok := Resolve(r)
		if !ok {
			t.Fatalf("character %q not mapped", r)
		}
		back, ok := decode(stroke)
		if !ok {
			t.Fatalf("keystroke for %q not decodable", r)
		}
		if back != r {
			t.Fatalf("round trip mismatch: %q -> %+v -> %q", r, stroke, back)
		}
	}
}

func TestResolveShiftState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r     rune
		code  int
		shift bool
	}{
		{'a', keyA, false},
		{'A', keyA, true},
		{'1', key1, false},
		{'!', key1, true},
		{' ', keySpace, false},
		{'"', keyApostrophe, true},
		{'\'', keyApostrophe, false},
		{'~', keyGrave, true},
	}

	for _, tc := range tests {
		stroke, ok := Resolve(tc.r)
		if !ok {
			t.Fatalf("character %q not mapped", tc.r)
		}
		if stroke.Code != tc.code || stroke.Shift != tc.shift {
			t.Fatalf("Resolve(%q) = %+v, want code=%d shift=%v", tc.r, stroke, tc.code, tc.shift)
		}
	}
}

func TestResolveUnsupportedCharacters(t *testing.T) {
	t.Parallel()

	for _, r := range "éñ中\t\n\x00😀" {
		if _, ok := Resolve(r); ok {
			t.Fatalf("character %q should be unmapped", r)
		}
	}
}

func TestPlanCountsSkippedWithoutAborting(t *testing.T) {
	t.Parallel()

	strokes, skipped := plan("héllo!")
	if skipped != 1 {
		t.Fatalf("expected 1 skipped character, got %d", skipped)
	}
	if len(strokes) != 5 {
		t.Fatalf("expected 5 keystrokes, got %d", len(strokes))
	}
	if !strokes[len(strokes)-1].Shift || strokes[len(strokes)-1].Code != key1 {
		t.Fatalf("expected trailing '!' keystroke, got %+v", strokes[len(strokes)-1])
	}
}
