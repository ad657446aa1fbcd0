package catalog

import "comboselect/internal/domain"

// SampleAuthors is the demo collection seeded for catalog fields that carry
// no static options
func SampleAuthors() domain.OptionList {
	names := []struct{ id, name string }{
		{"1", "Ada Lovelace"},
		{"2", "Alan Turing"},
		{"3", "Barbara Liskov"},
		{"4", "Brian Kernighan"},
		{"5", "Donald Knuth"},
		{"6", "Edsger Dijkstra"},
		{"7", "Frances Allen"},
		{"8", "Grace Hopper"},
		{"9", "John McCarthy"},
		{"10", "Ken Thompson"},
		{"11", "Leslie Lamport"},
		{"12", "Margaret Hamilton"},
		{"13", "Niklaus Wirth"},
		{"14", "Radia Perlman"},
		{"15", "Rob Pike"},
		{"16", "Robert Griesemer"},
		{"17", "Tony Hoare"},
		{"18", "Barbara Ryder"},
		{"19", "Dennis Ritchie"},
		{"20", "Shafi Goldwasser"},
	}
	list := make(domain.OptionList, 0, len(names))
	for _, n := range names {
		list = append(list, domain.NewOption(n.id, n.name))
	}
	return list
}
