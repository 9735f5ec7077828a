package main

import (
	"github.com/lehigh-university-libraries/bibwalk/cmd"

	// Register format plugins
	_ "github.com/lehigh-university-libraries/bibwalk/format/bibtex"
	_ "github.com/lehigh-university-libraries/bibwalk/format/fieldsjson"
	_ "github.com/lehigh-university-libraries/bibwalk/format/medline"
	_ "github.com/lehigh-university-libraries/bibwalk/format/mods"
	_ "github.com/lehigh-university-libraries/bibwalk/format/ris"
)

func main() {
	cmd.Execute()
}
