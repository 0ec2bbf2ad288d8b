package netlist

// Node is one electrical node: the positions absorbed by a single flood
// fill and the points they occupy.
type Node struct {
	Name    string  // Empty until named
	Points  []Point // Distinct points in absorption order
	Members []int   // Indices into the position list, in absorption order
}

func (n *Node) absorb(i int, p *Position, seen map[Point]bool) {
	n.Members = append(n.Members, i)
	n.addPoint(p.Point, seen)
	if p.Kind == WirePosition {
		n.addPoint(p.End, seen)
	}
}

func (n *Node) addPoint(pt Point, seen map[Point]bool) {
	if !seen[pt] {
		seen[pt] = true
		n.Points = append(n.Points, pt)
	}
}

// Resolve partitions positions into nodes. A fill is seeded at every pin
// not yet visited, in list order, and expands frontier points with two
// ordered passes over the unvisited positions:
//
//   - Pass A absorbs labels and junctions at the point. A global label is
//     absorbed too, but ends the expansion of that point: nothing else
//     coincident with it is reached through it.
//   - Pass B absorbs pins and no-connect markers at the point, and wires
//     with either endpoint there; the far endpoint of a wire becomes a new
//     frontier point.
//
// Every position is absorbed by at most one node and every pin by exactly
// one. Nodes are returned in creation order.
func Resolve(positions []Position) []*Node {
	visited := make([]bool, len(positions))
	var nodes []*Node

	for seed := range positions {
		if visited[seed] || positions[seed].Kind != PinPosition {
			continue
		}

		node := &Node{}
		seen := make(map[Point]bool)
		visited[seed] = true
		node.absorb(seed, &positions[seed], seen)

		frontier := []Point{positions[seed].Point}
		for len(frontier) > 0 {
			pt := frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
			frontier = expand(pt, positions, visited, node, seen, frontier)
		}

		nodes = append(nodes, node)
	}

	return nodes
}

// expand runs both passes at pt and returns the frontier with the far
// ends of newly absorbed wires pushed
func expand(pt Point, positions []Position, visited []bool, node *Node, seen map[Point]bool, frontier []Point) []Point {
	for i := range positions {
		p := &positions[i]
		if visited[i] || p.Point != pt {
			continue
		}
		switch p.Kind {
		case LabelPosition, JunctionPosition:
			visited[i] = true
			node.absorb(i, p, seen)
		case GlobalLabelPosition:
			visited[i] = true
			node.absorb(i, p, seen)
			return frontier
		}
	}

	for i := range positions {
		p := &positions[i]
		if visited[i] {
			continue
		}
		switch p.Kind {
		case PinPosition, NoConnectPosition:
			if p.Point == pt {
				visited[i] = true
				node.absorb(i, p, seen)
			}
		case WirePosition:
			switch pt {
			case p.Point:
				visited[i] = true
				node.absorb(i, p, seen)
				frontier = append(frontier, p.End)
			case p.End:
				visited[i] = true
				node.absorb(i, p, seen)
				frontier = append(frontier, p.Point)
			}
		}
	}

	return frontier
}
