package simulation

//builtinTemplates returns the seeding scenarios scaled to a rows x columns grid
func builtinTemplates(rows int, columns int) []Template {
	return []Template{
		basinTemplate(rows, columns),
		damTemplate(rows, columns),
		funnelTemplate(rows, columns),
		stairsTemplate(rows, columns),
	}
}

func floor(rows int, columns int) [][]int {
	vc := make([][]int, 0, columns)
	for x := 0; x < columns; x++ {
		vc = append(vc, []int{x, rows - 1})
	}
	return vc
}

func block(x1 int, y1 int, x2 int, y2 int) [][]int {
	var vc [][]int
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			vc = append(vc, []int{x, y})
		}
	}
	return vc
}

//basin: an open container with a slab of water dropped inside
func basinTemplate(rows int, columns int) Template {
	left, right, top := columns/4, columns*3/4, rows/3
	solids := floor(rows, columns)
	for y := top; y < rows-1; y++ {
		solids = append(solids, []int{left, y}, []int{right, y})
	}
	return Template{
		Name:   "basin",
		Descr:  "water settling inside an open container",
		Solids: solids,
		Water:  block(left+1, top, right-1, top+(rows-1-top)/2),
	}
}

//dam: a full reservoir held by a wall that stops short of the floor
func damTemplate(rows int, columns int) Template {
	wall, top := columns/2, rows/4
	solids := floor(rows, columns)
	for y := 0; y < rows-3; y++ {
		solids = append(solids, []int{wall, y})
	}
	return Template{
		Name:   "dam",
		Descr:  "a reservoir leaking under a wall",
		Solids: solids,
		Water:  block(0, top, wall-1, rows-2),
	}
}

//funnel: a V of solids draining into a basin below
func funnelTemplate(rows int, columns int) Template {
	top := rows / 4
	solids := floor(rows, columns)
	for d := 0; ; d++ {
		y, lx, rx := top+d, d, columns-1-d
		if rx-lx <= 2 || y >= rows-1 {
			break
		}
		solids = append(solids, []int{lx, y}, []int{rx, y})
	}
	var water [][]int
	if top >= 2 {
		water = block(1, top-2, columns-2, top-1)
	}
	return Template{
		Name:   "funnel",
		Descr:  "water poured into a funnel",
		Solids: solids,
		Water:  water,
	}
}

//stairs: water cascading down steps
func stairsTemplate(rows int, columns int) Template {
	w, h, top := columns/6, rows/6, rows/3
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	solids := floor(rows, columns)
	for i := 0; i*w < columns; i++ {
		y := top + i*h
		if y >= rows-1 {
			break
		}
		for x := i * w; x < (i+1)*w && x < columns; x++ {
			solids = append(solids, []int{x, y})
		}
	}
	y1 := top - 3
	if y1 < 0 {
		y1 = 0
	}
	var water [][]int
	if top > 0 {
		water = block(0, y1, w-1, top-1)
	}
	return Template{
		Name:   "stairs",
		Descr:  "water running down a staircase",
		Solids: solids,
		Water:  water,
	}
}
