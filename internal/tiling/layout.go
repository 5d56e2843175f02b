package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/geom"
)

// ratioEpsilon absorbs float error so that e.g. 1000*0.6 floors to 600.
const ratioEpsilon = 1e-9

// Arrange computes rectangles for n tiled windows inside area, in list
// order. Floating layouts return nil: their windows keep whatever geometry
// the user gave them. n == 0 returns nil for every layout.
func Arrange(n int, area geom.Rect, layout config.LayoutConfig, innerGap int) ([]geom.Rect, error) {
	if n <= 0 {
		return nil, nil
	}
	if innerGap < 0 {
		innerGap = 0
	}

	switch layout.Type {
	case config.LayoutFloating:
		return nil, nil

	case config.LayoutMonocle:
		positions := make([]geom.Rect, n)
		for i := range positions {
			positions[i] = area
		}
		return positions, nil

	case config.LayoutTiling:
		return masterStack(n, area, layout, innerGap)

	default:
		return nil, fmt.Errorf("unsupported layout type: %q", layout.Type)
	}
}

func masterStack(n int, area geom.Rect, layout config.LayoutConfig, gap int) ([]geom.Rect, error) {
	if layout.MasterRatio <= 0 || layout.MasterRatio >= 1 {
		return nil, fmt.Errorf("master ratio %.2f outside (0,1)", layout.MasterRatio)
	}
	if layout.MasterCount < 1 {
		return nil, fmt.Errorf("master count %d below 1", layout.MasterCount)
	}

	width := int(area.Width)
	masters := min(layout.MasterCount, n)

	// Everything fits in the master column.
	if n <= masters {
		return column(n, area.X, area.Y, width, int(area.Height), gap)
	}

	masterWidth := MasterWidth(area.Width, layout.MasterRatio)
	stackWidth := width - masterWidth - gap
	if masterWidth <= 0 || stackWidth <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: area=%dx%d masterWidth=%d stackWidth=%d gap=%d",
			area.Width, area.Height, masterWidth, stackWidth, gap,
		)
	}

	positions, err := column(masters, area.X, area.Y, masterWidth, int(area.Height), gap)
	if err != nil {
		return nil, err
	}
	stack, err := column(n-masters, area.X+masterWidth+gap, area.Y, stackWidth, int(area.Height), gap)
	if err != nil {
		return nil, err
	}
	return append(positions, stack...), nil
}

// MasterWidth returns floor(width * ratio).
func MasterWidth(width uint, ratio float64) int {
	return int(math.Floor(float64(width)*ratio + ratioEpsilon))
}

// column stacks k rows of equal height separated by gap. The integer
// remainder of the division goes to the last row so the rows fill height.
func column(k, x, y, width, height, gap int) ([]geom.Rect, error) {
	rowHeight := (height - gap*(k-1)) / k
	if width <= 0 || rowHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for column: %dx%d rows=%d gap=%d",
			width, height, k, gap,
		)
	}
	remainder := height - gap*(k-1) - rowHeight*k

	positions := make([]geom.Rect, k)
	for i := 0; i < k; i++ {
		h := rowHeight
		if i == k-1 {
			h += remainder
		}
		positions[i] = geom.New(x, y+i*(rowHeight+gap), width, h)
	}
	return positions, nil
}

// UsableArea returns the part of screen available to tiled windows: the
// bar strip along the top is removed, then the outer gap on every side.
func UsableArea(screen geom.Rect, barHeight, outerGap int) geom.Rect {
	area := screen
	if barHeight > 0 {
		area = geom.New(screen.X, screen.Y+barHeight, int(screen.Width), int(screen.Height)-barHeight)
	}
	if outerGap > 0 {
		area = area.Inset(outerGap)
	}
	return area
}
