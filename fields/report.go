package fields

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Report writes one line per field: index, level, tag, value and, for
// consumed fields, a trailing marker. With colorize set, tags and levels are
// highlighted for terminal output.
func Report(w io.Writer, f *Fields, colorize bool) error {
	tagColor := color.New(color.FgCyan, color.Bold)
	levelColor := color.New(color.FgYellow)
	usedColor := color.New(color.Faint)
	if !colorize {
		tagColor.DisableColor()
		levelColor.DisableColor()
		usedColor.DisableColor()
	}

	if _, err := fmt.Fprintf(w, "fields: %d\n", f.Len()); err != nil {
		return err
	}
	for i := 0; i < f.Len(); i++ {
		it := f.At(i)
		used := ""
		if it.Used {
			used = usedColor.Sprint(" (used)")
		}
		_, err := fmt.Fprintf(w, "%3d %s %s %q%s\n",
			i+1,
			levelColor.Sprintf("[%s]", LevelName(it.Level)),
			tagColor.Sprint(it.Tag),
			it.Value,
			used,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// LevelName returns a short label for a level.
func LevelName(level int) string {
	switch level {
	case LevelMain:
		return "main"
	case LevelHost:
		return "host"
	case LevelSeries:
		return "series"
	case LevelOriginal:
		return "original"
	case LevelAny:
		return "any"
	default:
		return fmt.Sprintf("level %d", level)
	}
}
