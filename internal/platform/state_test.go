package platform

import "testing"

func TestNextDisplayState(t *testing.T) {
	tests := []struct {
		current   DisplayState
		displayed bool
		want      DisplayState
	}{
		{DisplayHidden, true, DisplayShowing},
		{DisplayHiding, true, DisplayShowing},
		{DisplayShown, true, DisplayShown},
		{DisplayShowing, true, DisplayShowing},
		{DisplayShown, false, DisplayHiding},
		{DisplayShowing, false, DisplayHiding},
		{DisplayHidden, false, DisplayHidden},
		{DisplayHiding, false, DisplayHiding},
	}
	for _, tt := range tests {
		got := NextDisplayState(tt.current, tt.displayed)
		if got != tt.want {
			t.Errorf("NextDisplayState(%s, %v) = %s, want %s", tt.current, tt.displayed, got, tt.want)
		}
	}
}

func TestRectApplyDelta(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 400, Height: 300}
	got := r.ApplyDelta(RectDelta{Top: 1, Bottom: 2, Left: 3, Right: 4})
	want := Rect{X: 97, Y: 49, Width: 407, Height: 303}
	if got != want {
		t.Fatalf("ApplyDelta = %+v, want %+v", got, want)
	}

	if got := r.ApplyDelta(RectDelta{}); got != r {
		t.Fatalf("zero delta changed rect: %+v", got)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#8dbcff")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != (Color{R: 0x8d, G: 0xbc, B: 0xff, A: 0xff}) {
		t.Fatalf("unexpected color %+v", c)
	}
	if c.Pixel() != 0x8dbcff {
		t.Fatalf("Pixel() = %#x, want 0x8dbcff", c.Pixel())
	}

	c, err = ParseColor("#11223380")
	if err != nil {
		t.Fatalf("parse with alpha: %v", err)
	}
	if c.A != 0x80 || c.String() != "#11223380" {
		t.Fatalf("unexpected alpha color %s", c)
	}

	for _, bad := range []string{"", "#123", "red", "#zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
