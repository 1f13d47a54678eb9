package game

import (
	"image/color"

	"golang.org/x/image/colornames"
)

var playerPalette = []color.RGBA{
	colornames.Cornflowerblue,
	colornames.Orangered,
	colornames.Mediumseagreen,
	colornames.Gold,
	colornames.Orchid,
	colornames.Turquoise,
}

func playerColor(i int) color.RGBA {
	if i < 0 {
		return colornames.Gray
	}
	return playerPalette[i%len(playerPalette)]
}

var (
	spaceColor     = color.RGBA{R: 6, G: 8, B: 16, A: 255}
	gridLineColor  = color.RGBA{R: 30, G: 36, B: 60, A: 255}
	obstacleColor  = colornames.Dimgray
	difficultColor = color.RGBA{R: 60, G: 40, B: 90, A: 255}
	reachColor     = color.RGBA{R: 80, G: 160, B: 255, A: 60}
	targetColor    = colornames.Red
	hoverColor     = color.RGBA{R: 255, G: 255, B: 255, A: 40}
)

// beamColor is the beam tint for an attack result.
func beamColor(result string) color.RGBA {
	switch result {
	case "hit":
		return colornames.Lawngreen
	case "jammed":
		return colornames.Darkorange
	default:
		return colornames.Lightgray
	}
}
