package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/brittlefloor/internal/entity"
	"github.com/samdwyer/brittlefloor/internal/gamedata"
	"github.com/samdwyer/brittlefloor/internal/world"
)

// View is everything drawn in one frame.
type View struct {
	Map     *world.GameMap
	Party   *entity.Party
	Status  string // first line below the map
	Message string // second line below the map
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
	tiles  *gamedata.TileRegistry
}

// NewRenderer creates a renderer that draws tiles from the given palette.
func NewRenderer(screen *Screen, tiles *gamedata.TileRegistry) *Renderer {
	return &Renderer{screen: screen, tiles: tiles}
}

// Render draws the map, party and status lines to the screen.
func (r *Renderer) Render(v View) {
	r.screen.Clear()

	if v.Map != nil {
		for y := 0; y < v.Map.Height(); y++ {
			for x := 0; x < v.Map.Width(); x++ {
				ch, style := r.tileCell(v.Map.TopTile(x, y))
				r.screen.SetContent(x, y, ch, style)
			}
		}
	}

	// Draw party on top, at its interpolated position
	if v.Party != nil {
		partyStyle := tcell.StyleDefault.
			Foreground(tcell.ColorYellow).
			Bold(true)
		px := int(math.Round(v.Party.RealX))
		py := int(math.Round(v.Party.RealY))
		r.screen.SetContent(px, py, v.Party.Symbol, partyStyle)
	}

	line := 0
	if v.Map != nil {
		line = v.Map.Height() + 1
	}
	r.RenderMessage(v.Status, line)
	r.RenderMessage(v.Message, line+1)

	r.screen.Show()
}

// tileCell returns the glyph and style for a tile id. Empty cells render
// blank and unknown ids as '?'.
func (r *Renderer) tileCell(id int) (rune, tcell.Style) {
	if id == 0 {
		return ' ', tcell.StyleDefault
	}
	def := r.tiles.GetByID(id)
	if def == nil {
		return '?', tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
	return def.GlyphRune(), tcell.StyleDefault.Foreground(def.TCellColor())
}

// RenderMessage displays a message on the given screen line.
func (r *Renderer) RenderMessage(msg string, y int) {
	r.screen.DrawText(0, y, msg, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}
