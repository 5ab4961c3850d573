package observability

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

var startTime = time.Now()

const (
	colorReset    = "\033[0m"
	colorNeonCyan = "\033[96m"
)

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

// PrintBanner prints the startup banner, centered on the terminal width.
// Falls back to plain left-aligned output when stdout is not a terminal.
func PrintBanner() {
	banner := `
   _______  ___________  ___
  / ___/ / / /_  __/ _ \/ _ |
 (__  ) /_/ / / / / , _/ __ |
/____/\__,_/ /_/ /_/|_/_/ |_|

  >> RESEARCH / PLAN / EXECUTE <<
`

	width := termWidth()
	lines := strings.Split(banner, "\n")

	for _, l := range lines {
		padding := (width - len(l)) / 2
		if padding < 0 {
			padding = 0
		}
		fmt.Printf("%s%s%s\n", strings.Repeat(" ", padding), colorNeonCyan+l, colorReset)
	}
}
