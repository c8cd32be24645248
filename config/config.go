package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/config"

	"github.com/kidnamedtony/van-app-sheets/table"
	"github.com/kidnamedtony/van-app-sheets/van"
)

const (
	DefaultTimeZone = "America/New_York"
	DefaultSecrets  = "VAN_API_CREDS"
)

type Config struct {
	VAN            VAN         `yaml:"van"`
	Folders        []string    `yaml:"folders"`
	TimeZone       string      `yaml:"timezone"`
	Spreadsheet    Spreadsheet `yaml:"spreadsheet"`
	UnmappedFields string      `yaml:"unmappedFields"`

	// Secrets is the name of the environment variable holding the credentials blob.
	Secrets string `yaml:"secrets"`
}

type VAN struct {
	BaseURL      string        `yaml:"baseURL"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxPages     int           `yaml:"maxPages"`
	DatabaseMode int           `yaml:"databaseMode"`
}

type Spreadsheet struct {
	URL      string      `yaml:"url"`
	Folders  Destination `yaml:"folders"`
	Turfs    Destination `yaml:"turfs"`
	Metadata Destination `yaml:"metadata"`
}

// Destination is a worksheet and the cells a table and its 'updated at' stamp are written to.
type Destination struct {
	Sheet     string `yaml:"sheet"`
	Anchor    string `yaml:"anchor"`
	Label     string `yaml:"label"`
	Timestamp string `yaml:"timestamp"`
}

type LookupFunc func(string) (string, bool)

var cell = regexp.MustCompile(`^[A-Z]+[1-9][0-9]*$`)

func Default() Config {
	return Config{
		VAN: VAN{
			BaseURL:      van.DefaultBaseURL,
			Timeout:      van.DefaultTimeout,
			MaxPages:     van.DefaultMaxPages,
			DatabaseMode: 0,
		},
		Folders:  []string{"!! GOTV_R01_Turf"},
		TimeZone: DefaultTimeZone,
		Spreadsheet: Spreadsheet{
			Folders:  Destination{Sheet: "gotv_import_folders", Anchor: "A1", Label: "D1", Timestamp: "E1"},
			Turfs:    Destination{Sheet: "gotv_import_turfs", Anchor: "A1", Label: "I1", Timestamp: "J1"},
			Metadata: Destination{Sheet: "gotv_import_folder_meta", Anchor: "A1", Label: "H1", Timestamp: "I1"},
		},
		UnmappedFields: string(table.Keep),
		Secrets:        DefaultSecrets,
	}
}

// Load reads the YAML configuration file, expanding ${VAR} references from the environment.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(os.LookupEnv)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open configuration file (%w)", err)
	}

	defer f.Close()

	return Parse(os.LookupEnv, f)
}

// Parse merges the YAML sources over the defaults. Later sources take precedence; lists
// replace rather than extend.
func Parse(lookup LookupFunc, sources ...io.Reader) (*Config, error) {
	options := []config.YAMLOption{
		config.Static(Default()),
	}

	for _, s := range sources {
		options = append(options, config.Source(s))
	}

	options = append(options, config.Expand(lookup))

	yaml, err := config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to read yaml config (%w)", err)
	}

	var c Config
	if err := yaml.Get(config.Root).Populate(&c); err != nil {
		return nil, fmt.Errorf("failed to populate configuration (%w)", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

func (c Config) Style() table.Style {
	style, _ := table.ParseStyle(c.UnmappedFields)

	return style
}

func (c Config) validate() error {
	if len(c.Folders) == 0 {
		return fmt.Errorf("invalid configuration - 'folders' allow-list is empty")
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid configuration - unknown time zone '%s' (%w)", c.TimeZone, err)
	}

	if c.VAN.Timeout < 0 {
		return fmt.Errorf("invalid configuration - negative 'van.timeout'")
	}

	if c.VAN.MaxPages < 0 {
		return fmt.Errorf("invalid configuration - negative 'van.maxPages'")
	}

	if _, err := table.ParseStyle(c.UnmappedFields); err != nil {
		return fmt.Errorf("invalid configuration (%w)", err)
	}

	for k, d := range map[string]Destination{
		"folders":  c.Spreadsheet.Folders,
		"turfs":    c.Spreadsheet.Turfs,
		"metadata": c.Spreadsheet.Metadata,
	} {
		if err := d.validate(); err != nil {
			return fmt.Errorf("invalid configuration - spreadsheet.%s: %w", k, err)
		}
	}

	return nil
}

func (d Destination) validate() error {
	if strings.TrimSpace(d.Sheet) == "" {
		return fmt.Errorf("missing worksheet name")
	}

	for _, v := range []string{d.Anchor, d.Label, d.Timestamp} {
		if !cell.MatchString(v) {
			return fmt.Errorf("invalid cell '%s' - expected something like 'A1'", v)
		}
	}

	return nil
}

// Range returns the A1 notation range of a cell on the destination worksheet.
func (d Destination) Range(a1 string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(d.Sheet, "'", "''"), a1)
}

// Worksheet returns the A1 notation range of the whole destination worksheet.
func (d Destination) Worksheet() string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(d.Sheet, "'", "''"))
}

// Destination returns the destination for a table by name.
func (s Spreadsheet) Destination(name string) (Destination, bool) {
	switch name {
	case "folders":
		return s.Folders, true
	case "turfs":
		return s.Turfs, true
	case "metadata":
		return s.Metadata, true
	default:
		return Destination{}, false
	}
}
