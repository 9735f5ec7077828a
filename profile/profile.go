// Package profile manages named option profiles: the ones embedded in the
// binary and the ones users keep in ~/.config/bibwalk/profiles.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibwalk/format"
)

// Profile is a named set of reader and writer options.
type Profile struct {
	// Name is the profile identifier (e.g., "diva-en")
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Output holds writer settings
	Output SerializeSettings `yaml:"output,omitempty" json:"output,omitempty"`

	// Input holds reader settings
	Input ParseSettings `yaml:"input,omitempty" json:"input,omitempty"`
}

// SerializeSettings mirrors format.SerializeOptions. Unset entries leave
// the option alone.
type SerializeSettings struct {
	Uppercase  *bool  `yaml:"uppercase,omitempty" json:"uppercase,omitempty"`
	Whitespace *bool  `yaml:"whitespace,omitempty" json:"whitespace,omitempty"`
	Brackets   *bool  `yaml:"brackets,omitempty" json:"brackets,omitempty"`
	FinalComma *bool  `yaml:"final_comma,omitempty" json:"final_comma,omitempty"`
	StrictKey  *bool  `yaml:"strict_key,omitempty" json:"strict_key,omitempty"`
	DropKey    *bool  `yaml:"drop_key,omitempty" json:"drop_key,omitempty"`
	ShortTitle *bool  `yaml:"short_title,omitempty" json:"short_title,omitempty"`
	SingleDash *bool  `yaml:"single_dash,omitempty" json:"single_dash,omitempty"`
	Language   string `yaml:"language,omitempty" json:"language,omitempty"`
	UTF8BOM    *bool  `yaml:"utf8_bom,omitempty" json:"utf8_bom,omitempty"`
	Pretty     *bool  `yaml:"pretty,omitempty" json:"pretty,omitempty"`
	Workers    int    `yaml:"workers,omitempty" json:"workers,omitempty"`
}

// ParseSettings mirrors format.ParseOptions.
type ParseSettings struct {
	Charset string `yaml:"charset,omitempty" json:"charset,omitempty"`
	Verbose *bool  `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	Strict  *bool  `yaml:"strict,omitempty" json:"strict,omitempty"`
}

// Apply copies the profile's writer settings onto opts.
func (p *Profile) Apply(opts *format.SerializeOptions) {
	o := p.Output
	setBool(&opts.Uppercase, o.Uppercase)
	setBool(&opts.Whitespace, o.Whitespace)
	setBool(&opts.Brackets, o.Brackets)
	setBool(&opts.FinalComma, o.FinalComma)
	setBool(&opts.StrictKey, o.StrictKey)
	setBool(&opts.DropKey, o.DropKey)
	setBool(&opts.ShortTitle, o.ShortTitle)
	setBool(&opts.SingleDash, o.SingleDash)
	setBool(&opts.UTF8BOM, o.UTF8BOM)
	setBool(&opts.Pretty, o.Pretty)
	if o.Language != "" {
		opts.Language = format.ParseLanguage(o.Language)
	}
	if o.Workers > 0 {
		opts.Workers = o.Workers
	}
}

// ApplyParse copies the profile's reader settings onto opts.
func (p *Profile) ApplyParse(opts *format.ParseOptions) {
	if p.Input.Charset != "" {
		opts.Charset = p.Input.Charset
	}
	setBool(&opts.Verbose, p.Input.Verbose)
	setBool(&opts.Strict, p.Input.Strict)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the values a profile may hold.
func (p *Profile) Validate() error {
	if p.Output.Language != "" && format.ParseLanguage(p.Output.Language) == format.LanguageUnset {
		return fmt.Errorf("profile %q: unknown language %q (want en or sv)", p.Name, p.Output.Language)
	}
	if p.Output.Workers < 0 {
		return fmt.Errorf("profile %q: workers must not be negative", p.Name)
	}
	if !format.SupportedCharset(p.Input.Charset) {
		return fmt.Errorf("profile %q: unsupported charset %q", p.Name, p.Input.Charset)
	}
	return nil
}

// configDirOverride holds a user-specified configuration directory.
// When empty, $HOME/.config/bibwalk is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the bibwalk configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "bibwalk"), nil
}

// ProfilesDir returns the user profiles directory.
func ProfilesDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "profiles"), nil
}

// ProfilePath returns the path for a user profile file.
func ProfilePath(name string) (string, error) {
	dir, err := ProfilesDir()
	if err != nil {
		return "", err
	}
	name = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return filepath.Join(dir, name+".yaml"), nil
}

// Save writes the profile to the user profiles directory.
func (p *Profile) Save() error {
	if err := p.Validate(); err != nil {
		return err
	}
	dir, err := ProfilesDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating profiles directory: %w", err)
	}

	path, err := ProfilePath(p.Name)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	return nil
}
