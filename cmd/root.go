// Package cmd provides CLI commands for bibwalk.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// logLevel is shared by the default handler so --verbose can lower it after
// flags are parsed.
var logLevel = new(slog.LevelVar)

func setupLogger() {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "WARN", "WARNING":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "bibwalk",
	Short: "Convert bibliographic records to BibTeX",
	Long: `Bibwalk reads MEDLINE/PubMed XML, MODS XML and RIS records into tagged
field sets and writes them as BibTeX entries.

Settings are taken, in order of precedence, from command-line flags,
BIBWALK_* environment variables, a config file (./bibwalk.yaml or
~/.config/bibwalk/bibwalk.yaml), the selected profile and built-in defaults.

Examples:
  bibwalk convert ris bibtex -i refs.ris -o refs.bib
  bibwalk convert mods bibtex --profile diva-en < export.xml
  bibwalk convert auto bibtex -i pubmed.xml.gz
  bibwalk validate medline -i pubmed.xml --unused`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./bibwalk.yaml or ~/.config/bibwalk/bibwalk.yaml)")
	flags.StringP("profile", "p", "", "option profile name or YAML file")
	flags.String("charset", "", "input charset: utf-8 or latin1 (default: utf-8)")
	flags.BoolP("verbose", "v", false, "report every converted record and log at debug level")
	flags.Bool("strict", false, "fail on the first record that cannot be read")
	for _, name := range []string{"profile", "charset", "verbose", "strict"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(profilesCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bibwalk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bibwalk"))
		}
	}

	viper.SetEnvPrefix("BIBWALK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		slog.Warn("reading config file", "path", cfgFile, "err", err)
	}

	if viper.GetBool("verbose") {
		logLevel.Set(slog.LevelDebug)
	}
}
