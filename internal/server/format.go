package server

import (
	"fmt"
	"strings"

	"github.com/cptaffe/paintgrid/paint"
)

// formatAt returns the text of rows [r0, r1) of a render, for a partial
// write that replaces only those lines.
func formatAt(rows [][]paint.Color, r0, r1 int) string {
	return paint.Format(rows[r0:r1])
}

// formatIndex lists registered layers as "key name" lines in order.
func formatIndex(r *paint.Registry) string {
	var sb strings.Builder
	for _, l := range r.Layers() {
		fmt.Fprintf(&sb, "%d %s\n", r.Order().Key(l.Name()), l.Name())
	}
	return sb.String()
}

// formatNames writes one layer name per line.
func formatNames(ls []*paint.Layer) string {
	var sb strings.Builder
	for _, l := range ls {
		sb.WriteString(l.Name())
		sb.WriteByte('\n')
	}
	return sb.String()
}
