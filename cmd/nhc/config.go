package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/carbocation/nhc"
	"github.com/carbocation/pfx"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default names of the reference files inside the data directory.
const (
	ConnectivityFile = "Data_NHC_Connectivity.txt"
	NetworkFile      = "Data_NHC_Network.txt"
	PathwayFile      = "Data_NHC_Pathway.txt"
	GOBPFile         = "Data_NHC_GO_BP.txt"
	GOMFFile         = "Data_NHC_GO_MF.txt"
)

var validate = validator.New()

// Config is everything one run needs. It can be filled from a YAML file,
// from flags, or both; flags that are set explicitly win.
type Config struct {
	Case   string `yaml:"case" validate:"required"`
	Output string `yaml:"output"`

	// DataDir holds the reference files under their default names. Each
	// file can be pointed elsewhere individually.
	DataDir      string `yaml:"data"`
	Connectivity string `yaml:"connectivity"`
	Network      string `yaml:"network"`
	Pathway      string `yaml:"pathway"`
	GOBP         string `yaml:"go_bp"`
	GOMF         string `yaml:"go_mf"`

	EdgeWeight float64 `yaml:"edge_weight" validate:"gt=0,lte=1"`
	Hub        int     `yaml:"hub" validate:"gte=0"`
	Merge      float64 `yaml:"merge" validate:"gte=0,lte=1"`

	// Intermediate, if set, is a local directory that receives the initial
	// and merged cluster tables.
	Intermediate string `yaml:"intermediate"`

	Workers int  `yaml:"workers" validate:"gte=0"`
	Verbose bool `yaml:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		DataDir:    ".",
		EdgeWeight: 0.99,
		Hub:        100,
		Merge:      0.5,
	}
}

func (c Config) ConnectivityPath() string { return dataPath(c.DataDir, c.Connectivity, ConnectivityFile) }
func (c Config) NetworkPath() string      { return dataPath(c.DataDir, c.Network, NetworkFile) }
func (c Config) PathwayPath() string      { return dataPath(c.DataDir, c.Pathway, PathwayFile) }
func (c Config) GOBPPath() string         { return dataPath(c.DataDir, c.GOBP, GOBPFile) }
func (c Config) GOMFPath() string         { return dataPath(c.DataDir, c.GOMF, GOMFFile) }

// InputPaths lists every file the run will read. The connectivity file is
// left out when hub filtering is off.
func (c Config) InputPaths() []string {
	out := []string{c.Case, c.NetworkPath(), c.PathwayPath(), c.GOBPPath(), c.GOMFPath()}
	if c.Hub > 0 {
		out = append(out, c.ConnectivityPath())
	}

	return out
}

// dataPath joins with a plain slash so that gs:// directories survive.
func dataPath(dir, override, name string) string {
	if override != "" {
		return override
	}
	if dir == "" {
		return name
	}

	return strings.TrimSuffix(dir, "/") + "/" + name
}

// fieldFlags ties each Config field to the flag names that can set it.
// When a config file is given, fields none of whose flags were set on the
// command line take the file's value.
var fieldFlags = []struct {
	names []string
	copy  func(dst, src *Config)
}{
	{[]string{"case"}, func(d, s *Config) { d.Case = s.Case }},
	{[]string{"o", "output"}, func(d, s *Config) { d.Output = s.Output }},
	{[]string{"data"}, func(d, s *Config) { d.DataDir = s.DataDir }},
	{[]string{"connectivity"}, func(d, s *Config) { d.Connectivity = s.Connectivity }},
	{[]string{"network"}, func(d, s *Config) { d.Network = s.Network }},
	{[]string{"pathway"}, func(d, s *Config) { d.Pathway = s.Pathway }},
	{[]string{"gobp"}, func(d, s *Config) { d.GOBP = s.GOBP }},
	{[]string{"gomf"}, func(d, s *Config) { d.GOMF = s.GOMF }},
	{[]string{"w", "edgeweight"}, func(d, s *Config) { d.EdgeWeight = s.EdgeWeight }},
	{[]string{"b", "hub"}, func(d, s *Config) { d.Hub = s.Hub }},
	{[]string{"m", "merge"}, func(d, s *Config) { d.Merge = s.Merge }},
	{[]string{"intermediate"}, func(d, s *Config) { d.Intermediate = s.Intermediate }},
	{[]string{"workers"}, func(d, s *Config) { d.Workers = s.Workers }},
	{[]string{"verbose"}, func(d, s *Config) { d.Verbose = s.Verbose }},
}

func newFlagSet(cfg *Config, configFile *string) *flag.FlagSet {
	fs := flag.NewFlagSet("nhc", flag.ContinueOnError)

	fs.StringVar(configFile, "config", "", "Optional YAML file with any of the settings below. Flags given explicitly override it.")
	fs.StringVar(&cfg.Case, "case", cfg.Case, "Case file: a header line, then case<TAB>gene1,gene2,... Optionally, may be a google storage URL (gs://)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Path to the output report. Defaults to output_case_only_<unix time>.txt")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "Shorthand for -output")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory (or gs:// prefix) holding the Data_NHC_* reference files")
	fs.StringVar(&cfg.Connectivity, "connectivity", cfg.Connectivity, "Override path to the gene connectivity file")
	fs.StringVar(&cfg.Network, "network", cfg.Network, "Override path to the gene network file")
	fs.StringVar(&cfg.Pathway, "pathway", cfg.Pathway, "Override path to the pathway annotation file")
	fs.StringVar(&cfg.GOBP, "gobp", cfg.GOBP, "Override path to the GO biological process annotation file")
	fs.StringVar(&cfg.GOMF, "gomf", cfg.GOMF, "Override path to the GO molecular function annotation file")
	fs.Float64Var(&cfg.EdgeWeight, "edgeweight", cfg.EdgeWeight, "Minimum network edge weight kept, typically in [0.7, 1]")
	fs.Float64Var(&cfg.EdgeWeight, "w", cfg.EdgeWeight, "Shorthand for -edgeweight")
	fs.IntVar(&cfg.Hub, "hub", cfg.Hub, "Genes with at least this many connections are dropped from the network. 0 disables hub filtering")
	fs.IntVar(&cfg.Hub, "b", cfg.Hub, "Shorthand for -hub")
	fs.Float64Var(&cfg.Merge, "merge", cfg.Merge, "Minimum overlap, in [0, 1], for two clusters to be merged")
	fs.Float64Var(&cfg.Merge, "m", cfg.Merge, "Shorthand for -merge")
	fs.StringVar(&cfg.Intermediate, "intermediate", cfg.Intermediate, "Optional local directory for the initial and merged cluster tables")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of cases or clusters processed at once. 0 uses every CPU")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log at debug level")

	return fs
}

// ParseConfig builds a validated Config from command line arguments. now
// names the default output file.
func ParseConfig(args []string, now time.Time) (Config, *flag.FlagSet, error) {
	cfg := DefaultConfig()
	var configFile string

	fs := newFlagSet(&cfg, &configFile)
	if err := fs.Parse(args); err != nil {
		return cfg, fs, err
	}

	if configFile != "" {
		fromFile, err := LoadConfigFile(configFile)
		if err != nil {
			return cfg, fs, err
		}

		set := make(map[string]struct{})
		fs.Visit(func(f *flag.Flag) { set[f.Name] = struct{}{} })

	fields:
		for _, field := range fieldFlags {
			for _, name := range field.names {
				if _, explicit := set[name]; explicit {
					continue fields
				}
			}
			field.copy(&cfg, &fromFile)
		}
	}

	if cfg.Output == "" {
		cfg.Output = fmt.Sprintf("output_case_only_%d.txt", now.Unix())
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fs, err
	}

	return cfg, fs, nil
}

// LoadConfigFile reads a YAML config. Keys it omits keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	local, err := nhc.ExpandHome(path)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(local)
	if err != nil {
		return cfg, pfx.Err(err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return cfg, nil
}

func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}

	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
