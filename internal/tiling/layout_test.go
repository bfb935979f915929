package tiling

import (
	"errors"
	"testing"

	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
)

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		windows    int
		rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{4, 2, 2},
		{5, 2, 3},
		{9, 3, 3},
		{10, 3, 4},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.windows)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("CalculateGrid(%d) = %dx%d, want %dx%d", tt.windows, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestCalculatePositions_TwoColumnsWithGaps(t *testing.T) {
	area := platform.Rect{X: 100, Y: 0, Width: 210, Height: 100}
	positions := CalculatePositions(2, area, 10)
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	// width=210, gap=10, cols=2: cellWidth=(210-30)/2=90, cellHeight=100-20=80
	want := []platform.Rect{
		{X: 110, Y: 10, Width: 90, Height: 80},
		{X: 210, Y: 10, Width: 90, Height: 80},
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Fatalf("position %d = %+v, want %+v", i, positions[i], want[i])
		}
	}
}

func TestCalculatePositions_ClampsTinyArea(t *testing.T) {
	positions := CalculatePositions(4, platform.Rect{Width: 10, Height: 10}, 20)
	for i, p := range positions {
		if p.Width < 1 || p.Height < 1 {
			t.Fatalf("position %d has non-positive size: %+v", i, p)
		}
	}
}

func TestInset(t *testing.T) {
	got := Inset(platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, platform.RectDelta{Top: 30, Left: 5, Right: 5})
	want := platform.Rect{X: 5, Y: 30, Width: 1910, Height: 1050}
	if got != want {
		t.Fatalf("Inset = %+v, want %+v", got, want)
	}
}

func TestArrange_TilesOnlyTilingWindows(t *testing.T) {
	state := model.NewState(nil)
	ws := state.AddWorkspace("1", platform.Rect{Width: 1000, Height: 500})
	a, _ := state.AddWindow(ws, model.Window{Handle: 0xa})
	floatBounds := platform.Rect{X: 42, Y: 42, Width: 300, Height: 200}
	f, _ := state.AddWindow(ws, model.Window{Handle: 0xf, State: platform.WindowFloating, Bounds: floatBounds})
	b, _ := state.AddWindow(ws, model.Window{Handle: 0xb})

	delta := platform.RectDelta{Left: 7, Right: 7, Bottom: 7}
	if err := Arrange(state, ws, Options{GapSize: 0, BorderDelta: delta}); err != nil {
		t.Fatalf("Arrange: %v", err)
	}

	ca, _ := state.Container(a)
	cb, _ := state.Container(b)
	cf, _ := state.Container(f)
	if ca.Window.Bounds != (platform.Rect{X: 0, Y: 0, Width: 500, Height: 500}) {
		t.Fatalf("unexpected bounds for a: %+v", ca.Window.Bounds)
	}
	if cb.Window.Bounds != (platform.Rect{X: 500, Y: 0, Width: 500, Height: 500}) {
		t.Fatalf("unexpected bounds for b: %+v", cb.Window.Bounds)
	}
	if cf.Window.Bounds != floatBounds {
		t.Fatalf("floating window moved: %+v", cf.Window.Bounds)
	}
	for _, c := range []*model.Container{ca, cb, cf} {
		if c.Window.BorderDelta != delta {
			t.Fatalf("window %s missing border delta", c)
		}
	}
	if state.PendingSync.HasRedraw() {
		t.Fatalf("Arrange must not queue redraws")
	}
}

func TestArrange_RejectsNonWorkspace(t *testing.T) {
	state := model.NewState(nil)
	if err := Arrange(state, state.Root().ID, Options{}); !errors.Is(err, model.ErrNoWorkspace) {
		t.Fatalf("expected ErrNoWorkspace, got %v", err)
	}
	if err := Arrange(state, model.ContainerID(99), Options{}); !errors.Is(err, model.ErrContainerNotFound) {
		t.Fatalf("expected ErrContainerNotFound, got %v", err)
	}
}

func TestSplitRect(t *testing.T) {
	tests := []struct {
		name   string
		r      platform.Rect
		dir    model.SplitDirection
		shares []float64
		gap    int
		want   []platform.Rect
	}{
		{
			name:   "horizontal by share",
			r:      platform.Rect{Width: 1000, Height: 500},
			dir:    model.SplitHorizontal,
			shares: []float64{0.75, 0.25},
			want:   []platform.Rect{{X: 0, Width: 750, Height: 500}, {X: 750, Width: 250, Height: 500}},
		},
		{
			name:   "gap between parts",
			r:      platform.Rect{X: 10, Width: 1010, Height: 500},
			dir:    model.SplitHorizontal,
			shares: []float64{0.5, 0.5},
			gap:    10,
			want:   []platform.Rect{{X: 10, Width: 500, Height: 500}, {X: 520, Width: 500, Height: 500}},
		},
		{
			name:   "vertical with unset shares",
			r:      platform.Rect{Y: 20, Width: 400, Height: 300},
			dir:    model.SplitVertical,
			shares: []float64{0, 0, 0},
			want: []platform.Rect{
				{Y: 20, Width: 400, Height: 100},
				{Y: 120, Width: 400, Height: 100},
				{Y: 220, Width: 400, Height: 100},
			},
		},
		{
			name:   "last part absorbs rounding",
			r:      platform.Rect{Width: 100, Height: 10},
			dir:    model.SplitHorizontal,
			shares: []float64{1, 1, 1},
			want:   []platform.Rect{{X: 0, Width: 33, Height: 10}, {X: 33, Width: 33, Height: 10}, {X: 66, Width: 34, Height: 10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRect(tt.r, tt.dir, tt.shares, tt.gap)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d parts, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("part %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}

	if got := SplitRect(platform.Rect{Width: 10}, model.SplitHorizontal, nil, 0); got != nil {
		t.Fatalf("expected no parts, got %v", got)
	}
}

func TestArrange_SplitDividesItsCell(t *testing.T) {
	state := model.NewState(nil)
	ws := state.AddWorkspace("1", platform.Rect{Width: 1000, Height: 500})
	a, _ := state.AddWindow(ws, model.Window{Handle: 0xa})
	b, _ := state.AddWindow(ws, model.Window{Handle: 0xb})
	split, err := state.WrapInSplit(b, model.SplitHorizontal)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	c, _ := state.AddWindow(split, model.Window{Handle: 0xc})
	if err := state.Resize(b, 0.25); err != nil {
		t.Fatalf("resize: %v", err)
	}

	if err := Arrange(state, ws, Options{}); err != nil {
		t.Fatalf("Arrange: %v", err)
	}

	want := map[model.ContainerID]platform.Rect{
		a: {X: 0, Y: 0, Width: 500, Height: 500},
		b: {X: 500, Y: 0, Width: 375, Height: 500},
		c: {X: 875, Y: 0, Width: 125, Height: 500},
	}
	for id, r := range want {
		got, _ := state.Container(id)
		if got.Window.Bounds != r {
			t.Fatalf("window %s bounds = %+v, want %+v", got, got.Window.Bounds, r)
		}
	}

	sc, _ := state.Container(split)
	sc.Split.Direction = model.SplitVertical
	if err := Arrange(state, ws, Options{}); err != nil {
		t.Fatalf("Arrange vertical: %v", err)
	}
	cc, _ := state.Container(c)
	if cc.Window.Bounds != (platform.Rect{X: 500, Y: 375, Width: 500, Height: 125}) {
		t.Fatalf("unexpected vertical bounds for c: %+v", cc.Window.Bounds)
	}
}

func TestArrange_SplitWithoutTilingWindowsTakesNoCell(t *testing.T) {
	state := model.NewState(nil)
	ws := state.AddWorkspace("1", platform.Rect{Width: 1000, Height: 500})
	a, _ := state.AddWindow(ws, model.Window{Handle: 0xa})
	split, _ := state.AddSplit(ws, model.SplitVertical)
	_, _ = state.AddWindow(split, model.Window{Handle: 0xf, State: platform.WindowFloating})

	if err := Arrange(state, ws, Options{}); err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	ca, _ := state.Container(a)
	if ca.Window.Bounds != (platform.Rect{Width: 1000, Height: 500}) {
		t.Fatalf("expected a to fill the workspace, got %+v", ca.Window.Bounds)
	}
}
