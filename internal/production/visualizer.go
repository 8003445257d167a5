package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/comalice/arbiterx/internal/core"
)

// DefaultVisualizer renders arbiter snapshots.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz source for the process registry. Processes are
// drawn in rank order from the arbiter node; the one in control is filled,
// inactive ones are dashed and temporary ones are ellipses.
func (v *DefaultVisualizer) ExportDOT(snap core.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Arbiter {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	rootLabel := fmt.Sprintf("tick %d", snap.Tick)
	if snap.Paused {
		rootLabel += "\\npaused"
	}
	fmt.Fprintf(&buf, "  \"arbiter\" [label=\"%s\" shape=diamond];\n", rootLabel)

	for rank, p := range ranked(snap.Processes) {
		fmt.Fprintf(&buf, "  %q [label=\"%s\\n%.1f\"%s];\n", p.Name, p.Name, p.Priority, nodeStyle(p))
		fmt.Fprintf(&buf, "  \"arbiter\" -> %q [label=\"%d\"];\n", p.Name, rank+1)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the snapshot.
func (v *DefaultVisualizer) ExportJSON(snap core.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// ranked orders processes the way the arbiter does: priority descending,
// slot order among ties.
func ranked(in []core.ProcessInfo) []core.ProcessInfo {
	out := append([]core.ProcessInfo(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

func nodeStyle(p core.ProcessInfo) string {
	var style string
	switch {
	case p.InControl:
		style = ` style="rounded,filled" fillcolor=lightgreen`
	case !p.Active:
		style = ` style="rounded,dashed" color=gray`
	}
	if p.Temporary {
		style += " shape=ellipse"
	}
	return style
}
