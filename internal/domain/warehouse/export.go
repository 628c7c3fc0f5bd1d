package warehouse

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ExportPaths writes every robot's remaining route in the plotter feed
// format: one comma-separated line of x coordinates, one of y, then a
// blank line, per robot in fleet order.
func (m *Model) ExportPaths(w io.Writer) error {
	var lines []string
	for _, r := range m.robots {
		cells := r.Path()
		xs := make([]string, len(cells))
		ys := make([]string, len(cells))
		for i, c := range cells {
			xs[i] = strconv.Itoa(c.X)
			ys[i] = strconv.Itoa(c.Y)
		}
		lines = append(lines, strings.Join(xs, ","), strings.Join(ys, ","), "")
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// ExportFilename names a path export after the moment it was taken
func (m *Model) ExportFilename() string {
	return fmt.Sprintf("TargetPositions_%s.txt", m.clock.Now().Format("20060102_150405"))
}
