package tetris

// IsValidMove reports whether shape fits on the board with its top-left
// corner at (offX, offY).
//
// Every occupied cell must land in a column inside the board and a row above
// the floor. Rows above the top edge are always passable; cells on the
// visible board must be empty. All movement, rotation and drop legality goes
// through this check.
func IsValidMove(shape Shape, offX, offY int, b *Board) bool {
	for dy, row := range shape {
		for dx, v := range row {
			if v == Empty {
				continue
			}
			x := offX + dx
			y := offY + dy
			if x < 0 || x >= Cols || y >= Rows {
				return false
			}
			if y >= 0 && b[y][x] != Empty {
				return false
			}
		}
	}
	return true
}
