package catalog

import "strings"

// Component is one Cangjie key and the radical it stands for.
type Component struct {
	Letter string `json:"letter"`
	Glyph  string `json:"glyph"`
	Name   string `json:"name"`
}

var components = map[rune]Component{
	'A': {Letter: "A", Glyph: "日", Name: "sun"},
	'B': {Letter: "B", Glyph: "月", Name: "moon"},
	'C': {Letter: "C", Glyph: "金", Name: "metal"},
	'D': {Letter: "D", Glyph: "木", Name: "wood"},
	'E': {Letter: "E", Glyph: "水", Name: "water"},
	'F': {Letter: "F", Glyph: "火", Name: "fire"},
	'G': {Letter: "G", Glyph: "土", Name: "earth"},
	'H': {Letter: "H", Glyph: "竹", Name: "bamboo"},
	'I': {Letter: "I", Glyph: "戈", Name: "spear"},
	'J': {Letter: "J", Glyph: "十", Name: "ten/cross"},
	'K': {Letter: "K", Glyph: "大", Name: "big"},
	'L': {Letter: "L", Glyph: "中", Name: "middle"},
	'M': {Letter: "M", Glyph: "一", Name: "one"},
	'N': {Letter: "N", Glyph: "弓", Name: "bow"},
	'O': {Letter: "O", Glyph: "人", Name: "person"},
	'P': {Letter: "P", Glyph: "心", Name: "heart"},
	'Q': {Letter: "Q", Glyph: "手", Name: "hand"},
	'R': {Letter: "R", Glyph: "口", Name: "mouth"},
	'S': {Letter: "S", Glyph: "尸", Name: "corpse"},
	'T': {Letter: "T", Glyph: "廿", Name: "twenty"},
	'U': {Letter: "U", Glyph: "山", Name: "mountain"},
	'V': {Letter: "V", Glyph: "女", Name: "woman"},
	'W': {Letter: "W", Glyph: "田", Name: "field"},
	'X': {Letter: "X", Glyph: "難", Name: "difficulty"},
	'Y': {Letter: "Y", Glyph: "卜", Name: "divination"},
	'Z': {Letter: "Z", Glyph: "重", Name: "heavy"},
}

// Decompose splits a Cangjie code into its components. Unknown keys map to "?".
func Decompose(code string) []Component {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	out := make([]Component, 0, len(code))
	for _, r := range code {
		c, ok := components[r]
		if !ok {
			c = Component{Letter: string(r), Glyph: "?", Name: "Unknown component"}
		}
		out = append(out, c)
	}
	return out
}

// Components lists the key table in A..Z order.
func Components() []Component {
	out := make([]Component, 0, len(components))
	for r := 'A'; r <= 'Z'; r++ {
		if c, ok := components[r]; ok {
			out = append(out, c)
		}
	}
	return out
}
