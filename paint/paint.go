// Package paint defines the shared value types of the paintgrid
// compositor: colours, layers and the order table that ranks layer names.
//
// Color and Layer are used by the layer stores, the grid, the 9P server and
// client tools alike.  The text form of a colour, "#rrggbb", is the wire
// format used in the server's render and color files.
package paint

import (
	"fmt"
	"strings"
)

// Color is an 8-bit-per-channel RGB triple.
type Color struct {
	R, G, B uint8
}

// White is the default base colour of an unpainted cell.
var White = Color{255, 255, 255}

// Invert returns the channel-wise complement of c.
func (c Color) Invert() Color {
	return Color{255 - c.R, 255 - c.G, 255 - c.B}
}

// String returns c in "#rrggbb" form.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses "#rrggbb" (the leading '#' is optional).
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("bad colour %q: want #rrggbb", s)
	}
	var c Color
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return c, nil
}

// Format serialises a rendered grid, indexed [y][x], one row per line with
// cells separated by a single space.
func Format(rows [][]Color) string {
	var sb strings.Builder
	for _, row := range rows {
		for i, c := range row {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(c.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseRender is the inverse of Format.
func ParseRender(text string) ([][]Color, error) {
	var rows [][]Color
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row := make([]Color, 0, len(fields))
		for _, f := range fields {
			c, err := ParseColor(f)
			if err != nil {
				return nil, err
			}
			row = append(row, c)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
