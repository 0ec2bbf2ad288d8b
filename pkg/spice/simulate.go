package spice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Vector is a simulation result vector. Real vectors have a zero
// imaginary part.
type Vector []complex128

// Real returns the real parts of the vector
func (v Vector) Real() []float64 {
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = real(c)
	}
	return out
}

// Plot maps vector names to vectors
type Plot map[string]Vector

// Results maps plot names ("Transient Analysis", "AC Analysis", ...) to
// plots. A plot name seen twice gets a "#2", "#3", ... suffix.
type Results map[string]Plot

// Simulator runs a circuit with control commands and returns the vectors
// it produced
type Simulator interface {
	Run(ctx context.Context, c *Circuit, controls []string) (Results, error)
}

// NgspiceBatch runs ngspice in batch mode as an external process
type NgspiceBatch struct {
	Binary  string      // ngspice executable, default "ngspice"
	WorkDir string      // parent of the temporary run directory, default os.TempDir()
	Logger  *log.Logger // optional
}

var _ Simulator = (*NgspiceBatch)(nil)

// Run writes the circuit and a control block to a temporary directory,
// runs ngspice -b on it and parses the ASCII rawfile written after every
// control command.
func (n *NgspiceBatch) Run(ctx context.Context, c *Circuit, controls []string) (Results, error) {
	logger := n.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	binary := n.Binary
	if binary == "" {
		binary = "ngspice"
	}

	dir, err := os.MkdirTemp(n.WorkDir, "ots-sim-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	rawfile := filepath.Join(dir, "out.raw")
	deck := filepath.Join(dir, "circuit.cir")

	run := &Circuit{
		Title:       c.Title,
		Items:       c.Items,
		includes:    c.includes,
		subcircuits: c.subcircuits,
		options:     c.options,
	}
	run.Control("set filetype=ascii", "set appendwrite")
	for _, cmd := range append(append([]string(nil), c.controls...), controls...) {
		run.Control(cmd, "write "+rawfile)
	}
	if err := run.Save(deck); err != nil {
		return nil, err
	}

	logger.Debug("running ngspice", "binary", binary, "deck", deck, "commands", len(controls))
	cmd := exec.CommandContext(ctx, binary, "-b", deck)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ngspice failed: %w: %s", err, tail(string(out), 10))
	}

	file, err := os.Open(rawfile)
	if err != nil {
		return nil, fmt.Errorf("ngspice wrote no results: %w", err)
	}
	defer file.Close()

	return ParseRawfile(file)
}

// ParseRawfile parses an ngspice ASCII rawfile holding one or more plots
func ParseRawfile(r io.Reader) (Results, error) {
	results := make(Results)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var (
		plotName string
		complexV bool
		nvars    int
		npoints  int
		names    []string
		inVars   bool
		values   []string
	)

	flush := func() error {
		if plotName == "" {
			return nil
		}
		plot, err := decodeValues(values, names, nvars, npoints, complexV)
		if err != nil {
			return fmt.Errorf("plot %q: %w", plotName, err)
		}
		key := plotName
		for i := 2; ; i++ {
			if _, exists := results[key]; !exists {
				break
			}
			key = fmt.Sprintf("%s#%d", plotName, i)
		}
		results[key] = plot
		plotName, complexV, nvars, npoints, names, values = "", false, 0, 0, nil, nil
		return nil
	}

	inValues := false
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if key, val, ok := strings.Cut(trimmed, ":"); ok && !inVars && (!inValues || key == "Title") {
			val = strings.TrimSpace(val)
			switch key {
			case "Title":
				if err := flush(); err != nil {
					return nil, err
				}
				inValues = false
			case "Plotname":
				plotName = val
			case "Flags":
				complexV = strings.Contains(val, "complex")
			case "No. Variables":
				nvars, _ = strconv.Atoi(val)
			case "No. Points":
				npoints, _ = strconv.Atoi(val)
			case "Variables":
				inVars = true
			case "Values":
				inValues = true
			}
			continue
		}

		switch {
		case inVars:
			fields := strings.Fields(trimmed)
			if len(fields) >= 2 {
				names = append(names, fields[1])
			}
			if len(names) == nvars {
				inVars = false
			}
		case inValues:
			values = append(values, strings.Fields(trimmed)...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rawfile: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return results, nil
}

func decodeValues(values, names []string, nvars, npoints int, complexV bool) (Plot, error) {
	if len(names) != nvars {
		return nil, fmt.Errorf("expected %d variables, got %d", nvars, len(names))
	}

	plot := make(Plot, nvars)
	for _, name := range names {
		plot[name] = make(Vector, 0, npoints)
	}

	stride := nvars + 1
	if len(values) < npoints*stride {
		// ngspice reports fewer points than announced when a run aborts
		npoints = len(values) / stride
	}
	for p := 0; p < npoints; p++ {
		row := values[p*stride : (p+1)*stride]
		for i, name := range names {
			v, err := parseValue(row[i+1], complexV)
			if err != nil {
				return nil, fmt.Errorf("point %d, %s: %w", p, name, err)
			}
			plot[name] = append(plot[name], v)
		}
	}

	return plot, nil
}

func parseValue(s string, complexV bool) (complex128, error) {
	if !complexV {
		f, err := strconv.ParseFloat(s, 64)
		return complex(f, 0), err
	}
	re, im, _ := strings.Cut(s, ",")
	fr, err := strconv.ParseFloat(re, 64)
	if err != nil {
		return 0, err
	}
	fi, err := strconv.ParseFloat(im, 64)
	if err != nil {
		return 0, err
	}
	return complex(fr, fi), nil
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
