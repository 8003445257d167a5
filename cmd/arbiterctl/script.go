package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// scriptEntry is an operator command issued before a given tick.
type scriptEntry struct {
	Tick uint64
	Line string
}

// parseScript reads "tick:command" pairs separated by commas, for example
// "10:pause,25:resume".
func parseScript(s string) ([]scriptEntry, error) {
	var out []scriptEntry
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tickStr, line, ok := strings.Cut(part, ":")
		if !ok || strings.TrimSpace(line) == "" {
			return nil, fmt.Errorf("script entry %q: want tick:command", part)
		}
		tick, err := strconv.ParseUint(strings.TrimSpace(tickStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("script entry %q: %w", part, err)
		}
		out = append(out, scriptEntry{Tick: tick, Line: strings.TrimSpace(line)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out, nil
}
