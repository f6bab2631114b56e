package store

import (
	"io"
	"log/slog"
)

type DriverOption func(o *driverOption)

type driverOption struct {
	logger    *slog.Logger
	returning string
}

func newDriverOption(options []DriverOption) *driverOption {
	opt := &driverOption{
		returning: DefaultIDColumn,
	}
	for _, op := range options {
		op(opt)
	}

	if opt.logger == nil {
		opt.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return opt
}

// WithLogger makes the driver log every statement (without bound values) at
// debug level.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(o *driverOption) {
		o.logger = logger
	}
}

// WithReturningColumn sets the column read back by PostgresDriver.InsertOne.
// It defaults to "id".
func WithReturningColumn(column string) DriverOption {
	return func(o *driverOption) {
		if column != "" {
			o.returning = column
		}
	}
}
