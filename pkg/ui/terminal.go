package ui

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"igprofile/pkg/models"
)

// Banner printed at the start of an interactive run
const Banner = `
  ┌─┐┌─┐┌─┐┬─┐┌─┐┌─┐┬┬  ┌─┐
  ││││ ┬├─┘├┬┘│ │├┤ ││  ├┤
  ┴└─┘┴  ┴└─└─┘└  ┴┴─┘└─┘  instagram profile snapshot
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

var (
	// Output receives all user-facing lines
	Output io.Writer = os.Stdout
	// ErrOutput receives error lines, which are printed even in quiet mode
	ErrOutput io.Writer = os.Stderr

	quiet atomic.Bool
)

// SetQuietMode suppresses everything but errors
func SetQuietMode(q bool) {
	quiet.Store(q)
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	return quiet.Load()
}

func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

func printf(format string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	fmt.Fprintf(Output, format, args...)
}

// PrintBanner prints the banner in cyan
func PrintBanner() {
	printf("%s", Cyan(Banner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(ErrOutput, Red(msg+": "+fmt.Sprintf("%v", args[0])))
		return
	}
	fmt.Fprintln(ErrOutput, Red(msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	printf("%s\n", Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		printf("%s\n", Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
		return
	}
	printf("%s\n", Yellow(msg))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	printf("%s\n", Magenta(msg))
}

// PrintProfileSummary prints the scalar profile fields and post totals
func PrintProfileSummary(p *models.Profile) {
	PrintInfo("Username", p.Username)
	if p.FullName != "" {
		PrintInfo("Name", p.FullName)
	}
	PrintInfo("Posts", fmt.Sprintf("%d", p.PostsCount))
	PrintInfo("Followers", fmt.Sprintf("%d", p.FollowersCount))
	PrintInfo("Following", fmt.Sprintf("%d", p.FollowingCount))

	likes, comments := 0, 0
	for _, post := range p.Posts {
		likes += post.Likes
		comments += post.Comments
	}
	PrintInfo("Recent posts", fmt.Sprintf("%d (%d likes, %d comments)", len(p.Posts), likes, comments))
}
