package ppu

import "github.com/waedt/gbvideo/internal/types"

// Object is a single OAM sprite-attribute entry: 4 bytes, Y/X position,
// tile index and attribute flags. It is handed to the renderer verbatim;
// the PPU itself never interprets attribute bits beyond sprite height.
type Object struct {
	Y, X, Tile, Attr uint8
}

// objSize returns 16 if LCDC's OBJ-size bit is set, else 8.
func (p *PPU) objSize() int {
	if p.b.Get(types.LCDC)&lcdcObjSize != 0 {
		return 16
	}
	return 8
}

// WriteOAM stores an OAM byte at the given offset (0..159), mirroring a
// direct OAM write from the memory subsystem. Offsets outside the 40x4
// table are ignored.
func (p *PPU) WriteOAM(offset uint16, value uint8) {
	if offset >= 160 {
		return
	}
	obj := &p.oam[offset/4]
	switch offset % 4 {
	case 0:
		obj.Y = value
	case 1:
		obj.X = value
	case 2:
		obj.Tile = value
	case 3:
		obj.Attr = value
	}
}

// ReadOAM reads an OAM byte at the given offset, the inverse of WriteOAM.
func (p *PPU) ReadOAM(offset uint16) uint8 {
	if offset >= 160 {
		return 0xff
	}
	obj := p.oam[offset/4]
	switch offset % 4 {
	case 0:
		return obj.Y
	case 1:
		return obj.X
	case 2:
		return obj.Tile
	default:
		return obj.Attr
	}
}

// ObjectsThisLine returns the sprites selected by the most recent OAM scan,
// in stable OAM order. At most 10 entries; renderers apply per-model
// priority (DMG: leftmost X wins; CGB: OAM order wins) during drawing —
// spec.md §4.4's pending TODO about sorting by X is resolved by leaving
// priority entirely to the renderer (see DESIGN.md).
func (p *PPU) ObjectsThisLine() []Object {
	return p.objThisLine[:p.objMax]
}

// scanOAM selects up to 10 sprites visible on line y, in OAM order,
// populating objThisLine/objMax (spec.md §4.4).
func (p *PPU) scanOAM(y uint8) {
	p.objMax = 0
	height := p.objSize()
	line := int(y)

	for i := 0; i < 40 && p.objMax < 10; i++ {
		oy := int(p.oam[i].Y)
		if line < oy-16 || line >= oy-16+height {
			continue
		}
		p.objThisLine[p.objMax] = p.oam[i]
		p.objMax++
	}
}
