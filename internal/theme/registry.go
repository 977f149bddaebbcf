package theme

import "image/color"

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// registry is ordered; index 0 is the fallback.
var registry = []Theme{
	{
		id:    "default",
		style: Pixel,
		colors: [numRoles]color.RGBA{
			Background: rgb(0, 0, 0),
			Surface:    rgb(40, 40, 40),
			SurfaceDim: rgb(30, 30, 30),
			Text:       rgb(255, 255, 255),
			TextDim:    rgb(100, 100, 100),
			Border:     rgb(100, 100, 100),
			Primary:    rgb(0, 255, 0),
			Secondary:  rgb(0, 255, 255),
			Accent:     rgb(255, 165, 0),
			Success:    rgb(0, 255, 0),
			Warning:    rgb(255, 255, 0),
			Error:      rgb(255, 50, 50),
			Info:       rgb(180, 100, 255),
			Highlight:  rgb(255, 255, 0),
		},
	},
	{
		id:    "monochrome",
		style: Pixel,
		colors: [numRoles]color.RGBA{
			Background: rgb(0, 0, 0),
			Surface:    rgb(40, 40, 40),
			SurfaceDim: rgb(30, 30, 30),
			Text:       rgb(255, 255, 255),
			TextDim:    rgb(100, 100, 100),
			Border:     rgb(100, 100, 100),
			Primary:    rgb(255, 255, 255),
			Secondary:  rgb(200, 200, 200),
			Accent:     rgb(180, 180, 180),
			Success:    rgb(255, 255, 255),
			Warning:    rgb(200, 200, 200),
			Error:      rgb(150, 150, 150),
			Info:       rgb(180, 180, 180),
			Highlight:  rgb(220, 220, 220),
		},
	},
	{
		id:    "neon",
		style: Glow,
		colors: [numRoles]color.RGBA{
			Background: rgb(0, 0, 0),
			Surface:    rgb(40, 40, 40),
			SurfaceDim: rgb(30, 30, 30),
			Text:       rgb(255, 255, 255),
			TextDim:    rgb(100, 100, 100),
			Border:     rgb(120, 60, 120),
			Primary:    rgb(255, 0, 255),
			Secondary:  rgb(255, 100, 255),
			Accent:     rgb(255, 0, 150),
			Success:    rgb(255, 0, 255),
			Warning:    rgb(255, 100, 200),
			Error:      rgb(255, 0, 100),
			Info:       rgb(200, 0, 255),
			Highlight:  rgb(255, 150, 255),
		},
	},
	{
		id:    "ocean",
		style: Dashed,
		colors: [numRoles]color.RGBA{
			Background: rgb(0, 0, 0),
			Surface:    rgb(0, 40, 100),
			SurfaceDim: rgb(0, 30, 80),
			Text:       rgb(0, 150, 255),
			TextDim:    rgb(0, 70, 150),
			Border:     rgb(0, 70, 150),
			Primary:    rgb(0, 150, 255),
			Secondary:  rgb(0, 100, 200),
			Accent:     rgb(0, 150, 255),
			Success:    rgb(0, 150, 255),
			Warning:    rgb(0, 100, 200),
			Error:      rgb(0, 70, 150),
			Info:       rgb(0, 100, 200),
			Highlight:  rgb(0, 150, 255),
		},
	},
	{
		id:    "sunset",
		style: Thick,
		colors: [numRoles]color.RGBA{
			Background: rgb(0, 0, 0),
			Surface:    rgb(100, 50, 0),
			SurfaceDim: rgb(70, 35, 0),
			Text:       rgb(255, 150, 0),
			TextDim:    rgb(150, 70, 0),
			Border:     rgb(150, 70, 0),
			Primary:    rgb(255, 150, 0),
			Secondary:  rgb(200, 100, 0),
			Accent:     rgb(255, 150, 0),
			Success:    rgb(255, 150, 0),
			Warning:    rgb(200, 100, 0),
			Error:      rgb(150, 70, 0),
			Info:       rgb(200, 100, 0),
			Highlight:  rgb(255, 150, 0),
		},
	},
	{
		id:    "matrix",
		style: Terminal,
		colors: [numRoles]color.RGBA{
			Background: rgb(0, 0, 0),
			Surface:    rgb(0, 60, 0),
			SurfaceDim: rgb(0, 40, 0),
			Text:       rgb(0, 200, 0),
			TextDim:    rgb(0, 100, 0),
			Border:     rgb(0, 100, 0),
			Primary:    rgb(0, 200, 0),
			Secondary:  rgb(0, 150, 0),
			Accent:     rgb(0, 200, 0),
			Success:    rgb(0, 200, 0),
			Warning:    rgb(0, 150, 0),
			Error:      rgb(0, 100, 0),
			Info:       rgb(0, 150, 0),
			Highlight:  rgb(0, 200, 0),
		},
	},
	{
		id:    "cyberpunk",
		style: Double,
		colors: [numRoles]color.RGBA{
			Background: rgb(0, 0, 0),
			Surface:    rgb(40, 40, 40),
			SurfaceDim: rgb(30, 30, 30),
			Text:       rgb(255, 255, 255),
			TextDim:    rgb(100, 100, 100),
			Border:     rgb(100, 100, 100),
			Primary:    rgb(255, 0, 150),
			Secondary:  rgb(0, 255, 255),
			Accent:     rgb(255, 255, 0),
			Success:    rgb(0, 255, 150),
			Warning:    rgb(255, 255, 0),
			Error:      rgb(255, 0, 50),
			Info:       rgb(150, 0, 255),
			Highlight:  rgb(255, 255, 0),
		},
	},
	{
		id:    "666",
		style: Inverted,
		colors: [numRoles]color.RGBA{
			Background: rgb(0, 0, 0),
			Surface:    rgb(60, 0, 0),
			SurfaceDim: rgb(40, 0, 0),
			Text:       rgb(200, 0, 0),
			TextDim:    rgb(100, 0, 0),
			Border:     rgb(100, 0, 0),
			Primary:    rgb(200, 0, 0),
			Secondary:  rgb(150, 0, 0),
			Accent:     rgb(200, 0, 0),
			Success:    rgb(200, 0, 0),
			Warning:    rgb(150, 0, 0),
			Error:      rgb(100, 0, 0),
			Info:       rgb(150, 0, 0),
			Highlight:  rgb(200, 0, 0),
		},
	},
	{
		id:    "gameboy",
		style: Pixel,
		colors: [numRoles]color.RGBA{
			Background: rgb(15, 56, 15),
			Surface:    rgb(48, 98, 48),
			SurfaceDim: rgb(32, 77, 32),
			Text:       rgb(155, 188, 15),
			TextDim:    rgb(139, 172, 15),
			Border:     rgb(48, 98, 48),
			Primary:    rgb(155, 188, 15),
			Secondary:  rgb(139, 172, 15),
			Accent:     rgb(155, 188, 15),
			Success:    rgb(155, 188, 15),
			Warning:    rgb(139, 172, 15),
			Error:      rgb(98, 130, 40),
			Info:       rgb(139, 172, 15),
			Highlight:  rgb(155, 188, 15),
		},
	},
}
