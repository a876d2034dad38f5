package ui

import "image/color"

var (
	colBackground = color.RGBA{24, 24, 30, 255}
	colGridDot    = color.RGBA{52, 52, 62, 255}
	colText       = color.RGBA{230, 230, 230, 255}
	colTextDim    = color.RGBA{150, 150, 160, 255}

	colNodeBody     = color.RGBA{46, 46, 54, 240}
	colNodeTitle    = color.RGBA{64, 64, 78, 255}
	colNodeBorder   = color.RGBA{90, 90, 104, 255}
	colNodeSelected = color.RGBA{255, 200, 60, 255}
	colClose        = color.RGBA{200, 70, 70, 255}
	colValueBox     = color.RGBA{30, 30, 36, 255}

	colPanel       = color.RGBA{36, 36, 44, 250}
	colPanelBorder = color.RGBA{120, 120, 140, 255}
	colItem        = color.RGBA{50, 50, 60, 255}
	colItemHover   = color.RGBA{70, 90, 130, 255}
)
