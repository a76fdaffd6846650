package dtd

// A Config holds the options that customize a parse: the entity
// resolver used to fetch external subsets and entities, an optional
// caller-supplied namespace prefix map, and optional logging.
//
// Config is set through functional options, after the teacher's
// xsdgen.Config/xsdgen.Option; see Option for how they differ.
type Config struct {
	resolver   Resolver
	prefixMap  map[string]string
	namespaces bool
	logger     Logger
	loglevel   int
}

func newConfig(opts []Option) *Config {
	cfg := &Config{
		resolver:   DefaultResolver{},
		namespaces: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}

// An Option configures a Config. Unlike xsdgen.Option, an Option here
// does not need to be reversible mid-parse (a Parser's Config is
// fixed for the lifetime of one parse), so Option is a plain
// func(*Config), not a reversible func(*Config) Option.
type Option func(*Config)

// EntityResolver supplies the Resolver used to fetch external
// subsets and external entities. Without this option, DefaultResolver
// is used, which opens file paths directly and fetches http(s) URLs.
func EntityResolver(r Resolver) Option {
	return func(cfg *Config) { cfg.resolver = r }
}

// PrefixMap supplies a caller-provided prefix-to-URI table for
// namespace resolution (the empty string prefix denotes the default
// namespace). When provided, post-processing uses this table
// directly and skips deriving one by scanning for xmlns attribute
// declarations.
func PrefixMap(m map[string]string) Option {
	return func(cfg *Config) {
		cfg.prefixMap = make(map[string]string, len(m))
		for k, v := range m {
			cfg.prefixMap[k] = v
		}
	}
}

// Namespaces enables or disables namespace-aware name resolution.
// It is enabled by default.
func Namespaces(enabled bool) Option {
	return func(cfg *Config) { cfg.namespaces = enabled }
}

// Types implementing the Logger interface can receive diagnostic
// messages about implicit decisions the parser made (an
// auto-created forward reference, a derived namespace mapping). The
// Logger interface is implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// LogOutput specifies an optional Logger for diagnostic messages.
func LogOutput(l Logger) Option {
	return func(cfg *Config) { cfg.logger = l }
}

// LogLevel sets the verbosity of messages sent to the Logger
// configured with LogOutput. Levels below 1 produce no output.
func LogLevel(level int) Option {
	return func(cfg *Config) { cfg.loglevel = level }
}
