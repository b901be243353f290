package edgemap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/edgemap/imageutil"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	captionHeight = 20
	captionSize   = 12
	sheetGap      = 4
)

var sheetBackground = color.RGBA{R: 32, G: 32, B: 32, A: 255}

// ErrNoPanels is returned when a sheet is requested without any panels.
var ErrNoPanels = errors.New("sheet has no panels")

// Panel is one captioned image on a contact sheet.
type Panel struct {
	Label string
	Image *imageutil.Image
}

// Panels lists the stages in pipeline order, ready for RenderSheet.
func (s *Stages) Panels() []Panel {
	return []Panel{
		{Label: "input", Image: s.Input},
		{Label: "blurred", Image: s.Blurred},
		{Label: "magnitude", Image: s.Magnitude()},
		{Label: "suppressed", Image: s.Suppressed},
		{Label: fmt.Sprintf("edges %d/%d", s.Lower, s.Upper), Image: s.Edges},
	}
}

var captionFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// RenderSheet lays the panels out left to right, each scaled to
// panelWidth pixels wide (0 keeps the widest panel's width) with its
// label rendered above it.
func RenderSheet(panels []Panel, panelWidth int) (*image.RGBA, error) {
	if len(panels) == 0 {
		return nil, ErrNoPanels
	}
	if panelWidth <= 0 {
		for _, p := range panels {
			panelWidth = max(panelWidth, p.Image.Width)
		}
	}

	// Tallest scaled panel sets the row height
	panelHeight := 1
	for _, p := range panels {
		panelHeight = max(panelHeight, scaledHeight(p.Image, panelWidth))
	}

	width := len(panels)*(panelWidth+sheetGap) + sheetGap
	height := captionHeight + panelHeight + sheetGap
	sheet := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(sheetBackground), image.Point{}, draw.Src)

	ttf, err := captionFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load caption font: %w", err)
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(captionSize)
	ctx.SetDst(sheet)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	for i, p := range panels {
		x := sheetGap + i*(panelWidth+sheetGap)

		// Nearest neighbour keeps edge maps crisp
		dst := image.Rect(x, captionHeight, x+panelWidth, captionHeight+scaledHeight(p.Image, panelWidth))
		src := p.Image.ToRGBA()
		draw.NearestNeighbor.Scale(sheet, dst, src, src.Bounds(), draw.Src, nil)

		ctx.SetClip(image.Rect(x, 0, x+panelWidth, captionHeight))
		if _, err := ctx.DrawString(p.Label, freetype.Pt(x+2, captionHeight-6)); err != nil {
			return nil, fmt.Errorf("failed to draw caption %q: %w", p.Label, err)
		}
	}

	return sheet, nil
}

// SaveSheet renders the panels and writes the sheet to path. The file
// format follows the path extension, defaulting to PNG.
func SaveSheet(panels []Panel, panelWidth int, path string) error {
	sheet, err := RenderSheet(panels, panelWidth)
	if err != nil {
		return err
	}
	return imageutil.SaveImage(imageutil.ImageFromImage(sheet, imageutil.FormatPNG), path)
}

func scaledHeight(img *imageutil.Image, width int) int {
	return max(1, img.Height*width/img.Width)
}
