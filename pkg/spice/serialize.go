package spice

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Line formats the item as a SPICE element line. Two-terminal passives,
// diodes and transistors keep a reference that already carries the
// element letter ("R1", not "RR1"); sources and subcircuit instances are
// always prefixed.
func (i Item) Line() string {
	name := i.Reference
	switch i.Kind {
	case Voltage, Subcircuit:
		name = i.Kind.Prefix() + name
	default:
		if !strings.HasPrefix(name, i.Kind.Prefix()) {
			name = i.Kind.Prefix() + name
		}
	}

	fields := make([]string, 0, len(i.Nodes)+2)
	fields = append(fields, name)
	fields = append(fields, i.Nodes...)
	fields = append(fields, i.Value)
	return strings.Join(fields, " ")
}

// Lines serialises the circuit:
//
//	.title <title>          (when set)
//	.include <path>         (one per library file)
//	.subckt <name> <ports>  (body, then .ends)
//	.<option> <value>
//	<items>
//	.end                    (when end is true)
//
// Includes required by nested subcircuits are hoisted to the top level.
// No sorting is applied; every section keeps insertion order.
func (c *Circuit) Lines(end bool) []string {
	var lines []string

	if c.Title != "" {
		lines = append(lines, ".title "+c.Title)
	}
	for _, path := range c.allIncludes() {
		lines = append(lines, ".include "+path)
	}
	lines = append(lines, c.body()...)
	if end {
		lines = append(lines, ".end")
	}

	return lines
}

// body is everything after the includes, shared with nested definitions
func (c *Circuit) body() []string {
	var lines []string

	for _, sub := range c.subcircuits {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf(".subckt %s %s", sub.Name, strings.Join(sub.Ports, " "))))
		if sub.Circuit != nil {
			lines = append(lines, sub.Circuit.body()...)
		}
		lines = append(lines, ".ends")
	}
	for _, opt := range c.options {
		lines = append(lines, fmt.Sprintf(".%s %s", opt.Name, opt.Value))
	}
	for _, item := range c.Items {
		lines = append(lines, item.Line())
	}

	return lines
}

func (c *Circuit) allIncludes() []string {
	includes := append([]string(nil), c.includes...)
	for _, sub := range c.subcircuits {
		if sub.Circuit == nil {
			continue
		}
		for _, p := range sub.Circuit.allIncludes() {
			if !contains(includes, p) {
				includes = append(includes, p)
			}
		}
	}
	return includes
}

// String returns the netlist text with a trailing .end
func (c *Circuit) String() string {
	return strings.Join(c.Lines(true), "\n") + "\n"
}

// WriteTo writes the netlist with the control block, if any, placed
// before the closing .end so ngspice executes it
func (c *Circuit) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64

	write := func(line string) error {
		n, err := bw.WriteString(line + "\n")
		total += int64(n)
		return err
	}

	for _, line := range c.Lines(false) {
		if err := write(line); err != nil {
			return total, err
		}
	}
	if len(c.controls) > 0 {
		if err := write(".control"); err != nil {
			return total, err
		}
		for _, ctl := range c.controls {
			if err := write(ctl); err != nil {
				return total, err
			}
		}
		if err := write(".endc"); err != nil {
			return total, err
		}
	}
	if err := write(".end"); err != nil {
		return total, err
	}

	return total, bw.Flush()
}

// Save writes the circuit to a file
func (c *Circuit) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := c.WriteTo(file); err != nil {
		return fmt.Errorf("failed to write netlist: %w", err)
	}
	return file.Close()
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
