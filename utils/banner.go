package utils

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/jedib0t/go-pretty/v6/text"
)

func DrawBanner() {
	figure.NewColorFigure("EBS Reclaimer", "small", "green", true).Print()
	fmt.Println(text.FgHiBlue.Sprint(" Unattached volume and orphaned snapshot cleanup"))
	fmt.Println()
}
