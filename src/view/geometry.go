package view

import (
	"image"

	"liquidsim/src/grid"
)

//DefCellSize is the window cell size in pixels
const DefCellSize = 20

//CellRect is the pixel area of the cell at x, y
func CellRect(x int, y int, cellSize int) image.Rectangle {
	return image.Rect(x*cellSize, y*cellSize, (x+1)*cellSize, (y+1)*cellSize)
}

//WaterRect is the part of the cell covered by water, filled up from the cell bottom
//empty for solids and dry cells
func WaterRect(c grid.Cell, cellSize int) image.Rectangle {
	r := CellRect(c.X, c.Y, cellSize)
	if c.Kind != grid.Water || c.Fill <= 0 {
		return image.Rectangle{Min: r.Max, Max: r.Max}
	}
	h := int(c.Fill * float64(cellSize))
	if h > cellSize {
		h = cellSize
	}
	r.Min.Y = r.Max.Y - h
	return r
}

//CellAt maps a pointer position to cell coordinates, ok is false outside a rows x columns grid
func CellAt(px int, py int, cellSize int, rows int, columns int) (x int, y int, ok bool) {
	if px < 0 || py < 0 || cellSize <= 0 {
		return 0, 0, false
	}
	x, y = px/cellSize, py/cellSize
	return x, y, x < columns && y < rows
}
