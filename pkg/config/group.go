package config

import "strings"

// Group is the verbatim line sequence of one entity, in file order.
type Group struct {
	Name  string
	Lines []string
}

// GroupLines buckets lines by normalized entity name in a single pass. The
// result is ordered by each name's first occurrence. Lines the grammar cannot
// attribute to an entity are dropped.
func GroupLines(g *Grammar, lines []string) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, line := range lines {
		name := g.EntityName(line)
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	return groups
}

// SplitLines splits a configuration dump into lines, dropping trailing
// carriage returns and blank lines.
func SplitLines(dump string) []string {
	raw := strings.Split(dump, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
