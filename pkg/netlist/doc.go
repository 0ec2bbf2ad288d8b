// Package netlist derives an electrical netlist from a KiCad schematic.
//
// A resolution pass runs in four steps:
//  1. Index: every pin, wire, junction, label, global label and no-connect
//     marker becomes a Position with absolute sheet coordinates. Pins are
//     mapped from library coordinates with schematic.Transform.
//  2. Resolve: a flood fill seeded at each unvisited pin groups coincident
//     positions into Nodes. Points compare bit for bit.
//  3. Name: label text wins, then the value of a power symbol, then "NC"
//     for no-connect markers; the rest are numbered "1", "2", ... in node
//     creation order.
//  4. Circuit: symbols sharing a reference are assembled into SPICE items,
//     with models resolved from the library search path.
//
// # Usage
//
//	sch, err := schematic.ParseFile("filter.kicad_sch")
//	if err != nil {
//		return err
//	}
//	nl, err := netlist.New(sch, netlist.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	c := spice.New("filter")
//	report, err := nl.Circuit(c, spice.NewResolver(libraryPaths))
//	if err != nil {
//		return err
//	}
//	for _, d := range report.Diagnostics {
//		fmt.Println(d)
//	}
//	fmt.Print(c)
//
// Every pass works on its own schematic snapshot; a Netlist is not safe for
// concurrent mutation but may be read from several goroutines.
package netlist
