package netlist

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
)

type options struct {
	logger           *log.Logger
	powerPrefix      string
	mechanicalPrefix string
	lenientModels    bool
}

// Option configures a resolution pass
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		logger:           log.New(io.Discard),
		powerPrefix:      schematic.PowerPrefix,
		mechanicalPrefix: schematic.MechanicalPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger for diagnostics
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPowerPrefix overrides the library id prefix of power symbols
func WithPowerPrefix(prefix string) Option {
	return func(o *options) {
		o.powerPrefix = prefix
	}
}

// WithMechanicalPrefix overrides the library id prefix of mechanical
// symbols, which are left out of the netlist
func WithMechanicalPrefix(prefix string) Option {
	return func(o *options) {
		o.mechanicalPrefix = prefix
	}
}

// WithLenientModels drops components whose model cannot be resolved and
// reports them instead of failing the whole circuit
func WithLenientModels() Option {
	return func(o *options) {
		o.lenientModels = true
	}
}
