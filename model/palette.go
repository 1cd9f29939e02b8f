package model

// Palette returns the renderer's background color table, indexed by a shape's
// ColorIndex. Indexes 31..37 repeat legacy reserve colors. The returned slice
// is a fresh copy.
func Palette() []string {
	return []string{
		"#000000", // 0
		"#ffffff", // 1
		"#4c4c4c", // 2
		"#808080", // 3
		"#999999", // 4
		"#c0c0c0", // 5
		"#cccccc", // 6
		"#e5e5e5", // 7
		"#f2f2f2", // 8
		"#008000", // 9
		"#00ff00", // 10
		"#bfffa0", // 11
		"#ffd629", // 12
		"#ff99cc", // 13
		"#004080", // 14
		"#9fc0e1", // 15
		"#5580ff", // 16
		"#a9c9fa", // 17
		"#ff0080", // 18
		"#800080", // 19
		"#ffbfff", // 20
		"#e45b21", // 21
		"#ffbfaa", // 22
		"#008080", // 23
		"#ff0000", // 24
		"#fdc59f", // 25
		"#808000", // 26
		"#bfbf00", // 27
		"#824100", // 28
		"#007256", // 29
		"#008000", // 30
		"#000080", // 31
		"#008080", // 32
		"#800080", // 33
		"#ff0000", // 34
		"#0000ff", // 35
		"#008000", // 36
		"#000000", // 37
	}
}
