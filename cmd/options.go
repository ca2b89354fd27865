package cmd

// Options holds the shared command-line options for the bbmigrate CLI.
type Options struct {
	Format    string
	Verbosity int
	DryRun    bool

	// Filters added on top of the include/exclude lists from config
	Include []string
	Exclude []string

	// Overrides for the import poll policy (e.g., "10s", "1h")
	PollInterval string
	Timeout      string
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the summary output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithDryRun lists and names repositories without creating anything.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithInclude adds repository name patterns to migrate.
func WithInclude(patterns ...string) Option {
	return func(o *Options) {
		o.Include = append(o.Include, patterns...)
	}
}

// WithExclude adds repository name patterns to leave out.
func WithExclude(patterns ...string) Option {
	return func(o *Options) {
		o.Exclude = append(o.Exclude, patterns...)
	}
}
