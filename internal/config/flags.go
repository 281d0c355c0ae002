package config

import (
	"github.com/spf13/pflag"
)

// Set implements pflag.Value.
func (h *Hex32) Set(s string) error {
	return h.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (h *Hex32) Type() string {
	return "uint32"
}

// Overrides registers command line flags that take precedence over the file
// and the environment. Only flags given on the command line are applied.
type Overrides struct {
	fs    *pflag.FlagSet
	apply []func(*Config)
}

func NewOverrides(fs *pflag.FlagSet) *Overrides {
	return &Overrides{fs: fs}
}

func (o *Overrides) when(name string, f func(*Config)) {
	o.apply = append(o.apply, func(c *Config) {
		if o.fs.Changed(name) {
			f(c)
		}
	})
}

func (o *Overrides) String(name, usage string, field func(*Config) *string) {
	v := o.fs.String(name, "", usage)
	o.when(name, func(c *Config) { *field(c) = *v })
}

func (o *Overrides) Bool(name, usage string, field func(*Config) *bool) {
	v := o.fs.Bool(name, false, usage)
	o.when(name, func(c *Config) { *field(c) = *v })
}

func (o *Overrides) Int(name, usage string, field func(*Config) *int) {
	v := o.fs.Int(name, 0, usage)
	o.when(name, func(c *Config) { *field(c) = *v })
}

func (o *Overrides) Hex(name, usage string, field func(*Config) *Hex32) {
	v := new(Hex32)
	o.fs.Var(v, name, usage)
	o.when(name, func(c *Config) { *field(c) = *v })
}

func (o *Overrides) Uint32(name, usage string, field func(*Config) *uint32) {
	v := o.fs.Uint32(name, 0, usage)
	o.when(name, func(c *Config) { *field(c) = *v })
}

func (o *Overrides) Strings(name, usage string, field func(*Config) *StringArray) {
	v := o.fs.StringSlice(name, nil, usage)
	o.when(name, func(c *Config) { *field(c) = StringArray(*v) })
}

// KeyFlags registers the signature constants.
func (o *Overrides) KeyFlags() *Overrides {
	o.Hex("xor-key", "global key signatures are encoded with", func(c *Config) *Hex32 { return &c.Keys.XorKey })
	o.Uint32("game-version", "game version the signatures target", func(c *Config) *uint32 { return &c.Keys.GameVersion })
	o.Hex("seed", "seed of the window hash", func(c *Config) *Hex32 { return &c.Keys.Seed })
	return o
}

// FeedFlags registers the signature feed source.
func (o *Overrides) FeedFlags() *Overrides {
	o.String("feed-url", "URL of the tunables document", func(c *Config) *string { return &c.Feed.URL })
	o.String("feed-key", "hex AES-256 key of the tunables document", func(c *Config) *string { return &c.Feed.Key })
	o.String("feed-file", "read the tunables document from a file instead", func(c *Config) *string { return &c.Feed.File })
	o.Bool("plain", "the tunables document is not encrypted", func(c *Config) *bool { return &c.Feed.Plain })
	return o
}

// DumpFlags registers where dumps are read from.
func (o *Overrides) DumpFlags() *Overrides {
	o.Strings("dir", "directory of dumps to scan (repeatable)", func(c *Config) *StringArray { return &c.Dumps.Dirs })
	o.String("remote", "URL of a dump storage server", func(c *Config) *string { return &c.Dumps.Remote })
	o.String("s3-bucket", "S3 bucket holding dumps", func(c *Config) *string { return &c.Dumps.S3.Bucket })
	o.String("s3-prefix", "key prefix of dumps in the bucket", func(c *Config) *string { return &c.Dumps.S3.Prefix })
	o.String("s3-region", "region of the bucket", func(c *Config) *string { return &c.Dumps.S3.Region })
	o.String("s3-endpoint", "endpoint of an S3 compatible service", func(c *Config) *string { return &c.Dumps.S3.Endpoint })
	o.Bool("s3-path-style", "address the bucket in the path", func(c *Config) *bool { return &c.Dumps.S3.PathStyle })
	return o
}

// ScanFlags registers the runner and report options.
func (o *Overrides) ScanFlags() *Overrides {
	o.Int("workers", "number of dumps scanned at once (0 for one per CPU)", func(c *Config) *int { return &c.Scan.Workers })
	o.Bool("only-current-version", "skip signatures for other game versions", func(c *Config) *bool { return &c.Scan.OnlyCurrentVersion })
	o.Bool("region-filter", "require dumps to match the region size estimate", func(c *Config) *bool { return &c.Scan.RegionFilter })
	o.Int("cache-size", "number of dump fingerprints remembered", func(c *Config) *int { return &c.Scan.CacheSize })
	o.String("out", "report file", func(c *Config) *string { return &c.Report.Path })
	o.Bool("no-color", "disable colorized output", func(c *Config) *bool { return &c.Report.NoColor })
	return o
}

// Apply copies the flags given on the command line into c and validates it.
func (o *Overrides) Apply(c *Config) error {
	for _, f := range o.apply {
		f(c)
	}
	return c.Validate()
}
