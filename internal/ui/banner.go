package ui

import (
	"fmt"

	"github.com/pterm/pterm"
)

const bannerText = `
     ██╗ ██████╗ ██████╗ ██╗███╗   ██╗███████╗██╗ ██████╗ ██╗  ██╗████████╗███████╗
     ██║██╔═══██╗██╔══██╗██║████╗  ██║██╔════╝██║██╔════╝ ██║  ██║╚══██╔══╝██╔════╝
     ██║██║   ██║██████╔╝██║██╔██╗ ██║███████╗██║██║  ███╗███████║   ██║   ███████╗
██   ██║██║   ██║██╔══██╗██║██║╚██╗██║╚════██║██║██║   ██║██╔══██║   ██║   ╚════██║
╚█████╔╝╚██████╔╝██████╔╝██║██║ ╚████║███████║██║╚██████╔╝██║  ██║   ██║   ███████║
 ╚════╝  ╚═════╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝╚══════╝╚═╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝
`

// PrintBanner displays the application banner unless silenced.
func PrintBanner(silence bool) {
	if silence {
		return
	}
	start := pterm.NewRGB(23, 55, 94)
	end := pterm.NewRGB(0, 176, 240)
	runes := []rune(bannerText)
	var colored string
	for i, r := range runes {
		colored += start.Fade(0, float32(len(runes)), float32(i), end).Sprint(string(r))
	}
	fmt.Println(colored)
}
