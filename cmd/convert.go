package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/bibwalk/fields"
	"github.com/lehigh-university-libraries/bibwalk/format"
)

var (
	inputFile  string
	outputFile string
)

var convertCmd = &cobra.Command{
	Use:   "convert <from> <to>",
	Short: "Convert bibliographic records between formats",
	Long: `Convert bibliographic records from one format to another.

Arguments:
  from    Source format (medline, mods, ris, fields, or auto to detect)
  to      Target format (bibtex, fields)

Input defaults to stdin, output defaults to stdout. Gzip-compressed input
is decompressed transparently.

Examples:
  # RIS to BibTeX (stdin to stdout)
  cat refs.ris | bibwalk convert ris bibtex

  # Input and output files
  bibwalk convert mods bibtex -i export.xml -o export.bib

  # DiVA export with English titles and translated degree notes
  bibwalk convert mods bibtex -i diva.xml --profile diva-en

  # Inspect the fields a reader produces
  bibwalk convert medline fields -i pubmed.xml --pretty`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	flags := convertCmd.Flags()
	flags.StringVarP(&inputFile, "input", "i", "", "Input file (default: stdin)")
	flags.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.BoolP("uppercase", "U", false, "Write entry types and field names in upper case")
	flags.BoolP("whitespace", "w", false, "Indent fields and pad the equals sign")
	flags.BoolP("brackets", "b", false, "Delimit values with braces instead of quotes")
	flags.Bool("final-comma", false, "Write a comma after the last field")
	flags.BoolP("strict-key", "s", false, "Keep only letters and digits in citation keys")
	flags.Bool("drop-key", false, "Write entries without citation keys")
	flags.Bool("short-title", false, "Prefer abbreviated journal and book titles")
	flags.Bool("single-dash", false, "Join page ranges with - instead of --")
	flags.Bool("utf8-bom", false, "Write a UTF-8 byte-order mark")
	flags.Bool("pretty", false, "Pretty-print JSON output")
	flags.StringP("language", "l", "", "Preferred language for bilingual fields: en or sv")
	flags.Int("workers", 0, "Number of goroutines rendering records (default: 1)")

	for key := range serializeKeys {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
	_ = viper.BindPFlag("language", flags.Lookup("language"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	fromFormat := args[0]
	toFormat := args[1]

	serializer, err := format.GetSerializer(toFormat)
	if err != nil {
		return fmt.Errorf("unknown target format %q: %w", toFormat, err)
	}

	p, err := selectedProfile()
	if err != nil {
		return err
	}
	serializeOpts, err := serializeOptions(p)
	if err != nil {
		return err
	}

	records, err := readRecords(fromFormat, inputFile, p)
	if err != nil {
		return err
	}
	slog.Info("parsed records", "count", len(records), "profile", p.Name)

	// Determine output destination
	var output io.Writer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	} else {
		output = os.Stdout
	}

	return writeRecords(serializer, output, records, serializeOpts)
}

// writeRecords serializes records. Records the writer skipped are reported
// as the command's error after the others have been written.
func writeRecords(s format.Serializer, w io.Writer, records []*fields.Fields, opts *format.SerializeOptions) error {
	if err := s.Serialize(w, records, opts); err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}
	return nil
}
