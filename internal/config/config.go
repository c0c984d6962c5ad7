// Package config loads the register configuration from YAML.
//
// Every key has a default, so an absent file or an empty one yields a
// working configuration. Unknown keys are rejected to catch typos.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/roach88/caja/internal/invoice"
)

// Config is the full configuration tree.
type Config struct {
	Business  BusinessConfig  `yaml:"business"`
	Storage   StorageConfig   `yaml:"storage"`
	Tax       TaxConfig       `yaml:"tax"`
	Invoice   InvoiceConfig   `yaml:"invoice"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Log       LogConfig       `yaml:"log"`
	Timezone  string          `yaml:"timezone"`
	Messaging MessagingConfig `yaml:"messaging"`
	Output    OutputConfig    `yaml:"output"`
}

// BusinessConfig is printed on every ticket.
type BusinessConfig struct {
	Name    string   `yaml:"name" validate:"required"`
	Address string   `yaml:"address"`
	Footer  []string `yaml:"footer"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// TaxConfig selects the tax policy.
//
// Inclusive true is policy A (catalog prices embed tax). Inclusive false is
// policy B (tax is added on top of the subtotal).
type TaxConfig struct {
	Rate      string `yaml:"rate" validate:"required"`
	Inclusive bool   `yaml:"inclusive"`
}

// InvoiceConfig controls numbering.
type InvoiceConfig struct {
	// CounterFloor is the first invoice number of each day, 0 or 1.
	CounterFloor int `yaml:"counter_floor" validate:"oneof=0 1"`

	// ReconcileCounter moves the counter past the ledger's highest number
	// when they disagree at startup.
	ReconcileCounter bool `yaml:"reconcile_counter"`
}

// CatalogConfig locates the product catalog. An empty path uses the
// built-in menu.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// LogConfig sets the log level (debug, info, warn or error) and an optional
// rotating log file.
type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
}

// MessagingConfig sets the chat link prefix.
type MessagingConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,http_url"`
}

// OutputConfig is where tickets and exports are written.
type OutputConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Business: BusinessConfig{
			Name:    "Taquería Mercy",
			Address: "Colonia Escalón, San Salvador",
			Footer:  []string{"¡Gracias por su compra!", "¡Vuelva pronto!"},
		},
		Storage: StorageConfig{Path: "caja.db"},
		Tax: TaxConfig{
			Rate:      "0.13",
			Inclusive: true,
		},
		Invoice: InvoiceConfig{
			CounterFloor:     1,
			ReconcileCounter: true,
		},
		Log:       LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 7},
		Timezone:  "America/El_Salvador",
		Messaging: MessagingConfig{BaseURL: "https://wa.me/"},
		Output:    OutputConfig{Dir: "out"},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path returns the defaults. ${VAR} references are expanded
// from the environment before parsing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidationError describes one invalid key.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s (value: %v): %s", e.Field, e.Value, e.Message)
}

// Validate reports every invalid key at once.
func (c *Config) Validate() error {
	var errs error

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = multierr.Append(errs, ValidationError{
				Field:   fieldPath(fe.Namespace()),
				Value:   fe.Value(),
				Message: tagMessage(fe),
			})
		}
	}

	if c.Tax.Rate != "" {
		if _, err := c.TaxPolicy(); err != nil {
			errs = multierr.Append(errs, ValidationError{"tax.rate", c.Tax.Rate, err.Error()})
		}
	}
	if _, err := c.Location(); err != nil {
		errs = multierr.Append(errs, ValidationError{"timezone", c.Timezone, err.Error()})
	}

	if errs != nil {
		return fmt.Errorf("configuration validation failed: %w", errs)
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their yaml key.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldPath drops the root type from "Config.business.name".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "http_url":
		return "must be an absolute http(s) URL"
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// TaxPolicy builds the configured policy.
func (c *Config) TaxPolicy() (invoice.TaxPolicy, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.Tax.Rate))
	if err != nil {
		return invoice.TaxPolicy{}, errors.New("not a decimal number")
	}
	p := invoice.TaxPolicy{Rate: rate, Inclusive: c.Tax.Inclusive}
	if err := p.Validate(); err != nil {
		return invoice.TaxPolicy{}, err
	}
	return p, nil
}

// Location resolves the timezone used for day boundaries and timestamps.
// Empty or "Local" means the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
