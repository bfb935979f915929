package tiling

import (
	"math"

	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
)

// Options controls how a workspace is laid out.
type Options struct {
	GapSize       int
	ScreenPadding platform.RectDelta
	BorderDelta   platform.RectDelta
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// CalculatePositions computes window positions for a grid layout with gaps
func CalculatePositions(numWindows int, area platform.Rect, gapSize int) []platform.Rect {
	if numWindows == 0 {
		return nil
	}

	rows, cols := CalculateGrid(numWindows)

	// One gap before each column and one after the last.
	totalHorizontalGaps := (cols + 1) * gapSize
	totalVerticalGaps := (rows + 1) * gapSize

	cellWidth := max((area.Width-totalHorizontalGaps)/cols, 1)
	cellHeight := max((area.Height-totalVerticalGaps)/rows, 1)

	positions := make([]platform.Rect, numWindows)

	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		positions[i] = platform.Rect{
			X:      area.X + gapSize + col*(cellWidth+gapSize),
			Y:      area.Y + gapSize + row*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions
}

// Inset shrinks a rectangle by per-edge padding.
func Inset(r platform.Rect, pad platform.RectDelta) platform.Rect {
	return platform.Rect{
		X:      r.X + pad.Left,
		Y:      r.Y + pad.Top,
		Width:  max(r.Width-pad.Left-pad.Right, 1),
		Height: max(r.Height-pad.Top-pad.Bottom, 1),
	}
}

// SplitRect divides r along a split direction. Horizontal splits divide the
// width and vertical splits the height, in proportion to shares with gap
// pixels between parts. Non-positive shares count as an equal share and the
// last part absorbs rounding.
func SplitRect(r platform.Rect, dir model.SplitDirection, shares []float64, gap int) []platform.Rect {
	n := len(shares)
	if n == 0 {
		return nil
	}

	extent := r.Width
	if dir == model.SplitVertical {
		extent = r.Height
	}
	avail := max(extent-(n-1)*gap, n)

	weights := make([]float64, n)
	var total float64
	for i, share := range shares {
		if share <= 0 {
			share = 1 / float64(n)
		}
		weights[i] = share
		total += share
	}

	parts := make([]platform.Rect, n)
	offset, used := 0, 0
	for i, w := range weights {
		size := int(float64(avail) * w / total)
		if i == n-1 {
			size = avail - used
		}
		size = max(size, 1)

		part := r
		if dir == model.SplitVertical {
			part.Y = r.Y + offset
			part.Height = size
		} else {
			part.X = r.X + offset
			part.Width = size
		}
		parts[i] = part
		used += size
		offset += size + gap
	}
	return parts
}

// Arrange lays out the tiling windows of a workspace and stamps every window
// with the border delta. The workspace's direct tiling children share a grid
// in tree order. A split fills its cell and divides it among its own tiling
// children by size share. Floating, maximized and fullscreen windows keep
// their bounds. It does not queue a redraw.
func Arrange(state *model.State, workspace model.ContainerID, opts Options) error {
	ws, ok := state.Container(workspace)
	if !ok {
		return model.ErrContainerNotFound
	}
	wsData, ok := ws.AsWorkspace()
	if !ok {
		return model.ErrNoWorkspace
	}

	for _, c := range state.WindowsIn(workspace) {
		w, _ := c.AsWindow()
		w.BorderDelta = opts.BorderDelta
	}

	cells := tilingChildren(state, ws)
	positions := CalculatePositions(len(cells), Inset(wsData.Bounds, opts.ScreenPadding), opts.GapSize)
	for i, c := range cells {
		place(state, c, positions[i], opts.GapSize)
	}
	return nil
}

func place(state *model.State, c *model.Container, r platform.Rect, gap int) {
	if w, ok := c.AsWindow(); ok {
		w.Bounds = r
		return
	}
	if c.Kind != model.KindSplit {
		return
	}

	children := tilingChildren(state, c)
	shares := make([]float64, len(children))
	for i, child := range children {
		shares[i] = child.SizePercent
	}
	for i, part := range SplitRect(r, c.Split.Direction, shares, gap) {
		place(state, children[i], part, gap)
	}
}

// tilingChildren returns the children that take part in tiling: tiling
// windows and splits holding at least one of them.
func tilingChildren(state *model.State, parent *model.Container) []*model.Container {
	var out []*model.Container
	for _, id := range parent.Children {
		c, ok := state.Container(id)
		if !ok {
			continue
		}
		switch c.Kind {
		case model.KindWindow:
			if c.Window.State == platform.WindowTiling {
				out = append(out, c)
			}
		case model.KindSplit:
			for _, w := range state.WindowsIn(c.ID) {
				if w.Window.State == platform.WindowTiling {
					out = append(out, c)
					break
				}
			}
		}
	}
	return out
}
