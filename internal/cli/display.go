package cli

import (
	fatih "github.com/fatih/color"
	gkcolor "github.com/gookit/color"
)

// Tool is the command name shown in help and reports.
const Tool = "stylefmt"

func green(s string) string {
	return gkcolor.FgGreen.Sprint(s)
}

func red(s string) string {
	return gkcolor.FgRed.Sprint(s)
}

func grey(s string) string {
	return gkcolor.RGB(138, 138, 138).Sprint(s)
}

func gold(s string) string {
	return gkcolor.RGB(181, 181, 91).Sprint(s)
}

// statusMarker is the per-file prefix of the text report.
func statusMarker(s Status) string {
	switch s {
	case StatusFormatted:
		return fatih.GreenString("formatted")
	case StatusError:
		return fatih.RedString("error    ")
	default:
		return fatih.New(fatih.Faint).Sprint("unchanged")
	}
}

// disableColor turns off both color libraries.
func disableColor() {
	fatih.NoColor = true
	gkcolor.Disable()
}
