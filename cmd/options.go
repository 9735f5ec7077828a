package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
	"github.com/lehigh-university-libraries/bibwalk/profile"
)

// loadProfiles returns the embedded profiles plus the user's own.
func loadProfiles() (*profile.Registry, error) {
	registry, err := profile.NewRegistry()
	if err != nil {
		return nil, err
	}
	dir, err := profile.ProfilesDir()
	if err != nil {
		return registry, nil
	}
	if err := registry.LoadFromDirectory(dir); err != nil {
		return nil, err
	}
	return registry, nil
}

// selectedProfile resolves the profile setting, which may name a registered
// profile or a YAML file. With no setting the default profile is used.
func selectedProfile() (*profile.Profile, error) {
	name := viper.GetString("profile")
	if ext := strings.ToLower(filepath.Ext(name)); ext == ".yaml" || ext == ".yml" {
		return profile.LoadFile(name)
	}
	if name == "" {
		name = "default"
	}

	registry, err := loadProfiles()
	if err != nil {
		return nil, fmt.Errorf("loading profiles: %w", err)
	}
	p, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s (see 'bibwalk profiles list')", name)
	}
	return p, nil
}

// parseOptions layers flags, environment and config over the profile's
// reader settings.
func parseOptions(p *profile.Profile, sourceName string) (*format.ParseOptions, error) {
	opts := format.NewParseOptions()
	opts.SourceName = sourceName
	opts.Logger = slog.Default()
	p.ApplyParse(opts)

	if viper.IsSet("charset") {
		opts.Charset = viper.GetString("charset")
	}
	if viper.IsSet("verbose") {
		opts.Verbose = viper.GetBool("verbose")
	}
	if viper.IsSet("strict") {
		opts.Strict = viper.GetBool("strict")
	}

	if !format.SupportedCharset(opts.Charset) {
		return nil, fmt.Errorf("unsupported charset: %s", opts.Charset)
	}
	return opts, nil
}

// serializeKeys maps config keys to the writer toggles they set.
var serializeKeys = map[string]func(*format.SerializeOptions) *bool{
	"uppercase":   func(o *format.SerializeOptions) *bool { return &o.Uppercase },
	"whitespace":  func(o *format.SerializeOptions) *bool { return &o.Whitespace },
	"brackets":    func(o *format.SerializeOptions) *bool { return &o.Brackets },
	"final-comma": func(o *format.SerializeOptions) *bool { return &o.FinalComma },
	"strict-key":  func(o *format.SerializeOptions) *bool { return &o.StrictKey },
	"drop-key":    func(o *format.SerializeOptions) *bool { return &o.DropKey },
	"short-title": func(o *format.SerializeOptions) *bool { return &o.ShortTitle },
	"single-dash": func(o *format.SerializeOptions) *bool { return &o.SingleDash },
	"utf8-bom":    func(o *format.SerializeOptions) *bool { return &o.UTF8BOM },
	"pretty":      func(o *format.SerializeOptions) *bool { return &o.Pretty },
}

// serializeOptions layers flags, environment and config over the profile's
// writer settings.
func serializeOptions(p *profile.Profile) (*format.SerializeOptions, error) {
	opts := format.NewSerializeOptions()
	opts.Logger = slog.Default()
	p.Apply(opts)

	for key, field := range serializeKeys {
		if viper.IsSet(key) {
			*field(opts) = viper.GetBool(key)
		}
	}
	if viper.IsSet("language") {
		s := viper.GetString("language")
		lang := format.ParseLanguage(s)
		if lang == format.LanguageUnset && s != "" {
			return nil, fmt.Errorf("unknown language %q (want en or sv)", s)
		}
		opts.Language = lang
	}
	if viper.IsSet("workers") {
		n := viper.GetInt("workers")
		if n < 0 {
			return nil, fmt.Errorf("workers must not be negative")
		}
		if n > 0 {
			opts.Workers = n
		}
	}
	return opts, nil
}

// openSource opens the named input file, or stdin when name is empty. The
// returned name identifies the source in messages.
func openSource(name string) (io.ReadCloser, string, error) {
	if name == "" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, "", fmt.Errorf("opening input file: %w", err)
	}
	return f, name, nil
}

// resolveParser returns the parser for from. "auto" detects the format from
// the file name and the first bytes of input.
func resolveParser(from, sourceName string, in *format.Input) (format.Parser, error) {
	if from != "auto" {
		parser, err := format.GetParser(from)
		if err != nil {
			return nil, fmt.Errorf("unknown source format %q: %w", from, err)
		}
		return parser, nil
	}

	peek, _ := in.Peek(4096)
	f, err := format.DetectFormat(strings.TrimSuffix(sourceName, ".gz"), peek)
	if err != nil {
		return nil, err
	}
	parser, ok := f.(format.Parser)
	if !ok {
		return nil, fmt.Errorf("format %s does not support reading", f.Name())
	}
	slog.Debug("detected input format", "source", sourceName, "format", f.Name())
	return parser, nil
}

// readRecords opens, decodes and parses the input.
func readRecords(from, inputName string, p *profile.Profile) (records []*fields.Fields, err error) {
	src, sourceName, err := openSource(inputName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing input file: %w", cerr)
		}
	}()

	parseOpts, err := parseOptions(p, sourceName)
	if err != nil {
		return nil, err
	}

	in, err := format.OpenInput(src, parseOpts.Charset)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing decompressor: %w", cerr)
		}
	}()

	parser, err := resolveParser(from, sourceName, in)
	if err != nil {
		return nil, err
	}

	records, err = parser.Parse(in, parseOpts)
	if err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	return records, nil
}
