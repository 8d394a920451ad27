package config

import (
	"fmt"

	"github.com/arthur-debert/ocp/pkg/errors"
)

// Output formats accepted by output.format.
var validFormats = map[string]bool{
	"auto": true,
	"term": true,
	"text": true,
	"json": true,
	"yaml": true,
}

// Config holds the effective settings.
type Config struct {
	Activation  Activation  `koanf:"activation" toml:"activation"`
	Profiles    Profiles    `koanf:"profiles" toml:"profiles"`
	Output      Output      `koanf:"output" toml:"output"`
	Materialize Materialize `koanf:"materialize" toml:"materialize"`
}

// Activation holds settings of the activation engine.
type Activation struct {
	TargetDir             string `koanf:"target_dir" toml:"target_dir"`
	BackupTimestampFormat string `koanf:"backup_timestamp_format" toml:"backup_timestamp_format"`
}

// Profiles holds settings of the profile service.
type Profiles struct {
	// VersionCheck enables the "behind remote" hints of profile listings.
	VersionCheck bool `koanf:"version_check" toml:"version_check"`
}

// Output controls how commands render their results.
type Output struct {
	Format string `koanf:"format" toml:"format"`
}

// Materialize controls how merged files are written to the cache.
type Materialize struct {
	Indent Indent `koanf:"indent" toml:"indent"`
}

// Indent is the indentation unit of materialised JSON.
type Indent string

// MarshalText keeps the indent readable in TOML output.
func (i Indent) MarshalText() ([]byte, error) {
	return []byte(i), nil
}

// Validate checks values that have a closed set of options.
func (c *Config) Validate() error {
	if !validFormats[c.Output.Format] {
		return errors.Newf(errors.ErrConfigParse, "invalid output.format %q", c.Output.Format).
			WithDetail("valid", []string{"auto", "term", "text", "json", "yaml"})
	}
	if c.Activation.BackupTimestampFormat == "" {
		return errors.New(errors.ErrConfigParse, "activation.backup_timestamp_format must not be empty")
	}
	return nil
}

// String renders the config for debug logs.
func (c *Config) String() string {
	return fmt.Sprintf("target_dir=%q version_check=%t format=%s indent=%q",
		c.Activation.TargetDir, c.Profiles.VersionCheck, c.Output.Format, string(c.Materialize.Indent))
}
