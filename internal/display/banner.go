package display

import (
	"fmt"
	"os"

	"github.com/backmassage/skinforge/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` ____  _    _       _____
/ ___|| | _(_)_ __ |  ___|__  _ __ __ _  ___
\___ \| |/ / | '_ \| |_ / _ \| '__/ _`+"`"+` |/ _ \
 ___) |   <| | | | |  _| (_) | | | (_| |  __/
|____/|_|\_\_|_| |_|_|  \___/|_|  \__, |\___|
                                  |___/
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
