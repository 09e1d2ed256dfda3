package catalog

// Builtin returns the lessons shipped with the tutor.
func Builtin() []Lesson {
	return []Lesson{
		{
			ID:          "foundations",
			Title:       "Component Foundations",
			TitleAlt:    "基本部件",
			Description: "Warm up with the Cangjie radicals and their single-key codes.",
			Exercises: []Exercise{
				Character{Glyph: "日", Meaning: "sun", MeaningAlt: "太陽", Code: "A"},
				Character{Glyph: "月", Meaning: "moon", MeaningAlt: "月亮", Code: "B"},
				Character{Glyph: "金", Meaning: "metal", MeaningAlt: "金屬", Code: "C"},
				Character{Glyph: "木", Meaning: "wood", MeaningAlt: "木頭", Code: "D"},
				Character{Glyph: "水", Meaning: "water", MeaningAlt: "水", Code: "E"},
				Character{Glyph: "火", Meaning: "fire", MeaningAlt: "火", Code: "F"},
				Character{Glyph: "土", Meaning: "earth", MeaningAlt: "泥土", Code: "G"},
				Character{Glyph: "竹", Meaning: "bamboo", MeaningAlt: "竹子", Code: "H"},
			},
		},
		{
			ID:          "simple-characters",
			Title:       "Simple Characters",
			TitleAlt:    "簡單字",
			Description: "Combine two components to reinforce spatial awareness.",
			Exercises: []Exercise{
				Character{Glyph: "明", Meaning: "bright", Code: "AB"},
				Character{Glyph: "林", Meaning: "forest", Code: "DD"},
				Character{Glyph: "尖", Meaning: "sharp", Code: "FU"},
				Character{Glyph: "朋", Meaning: "friend", Code: "BB"},
				Character{Glyph: "困", Meaning: "trapped", Code: "WG"},
				Character{Glyph: "沐", Meaning: "bathe", Code: "ED"},
				Character{Glyph: "炎", Meaning: "flame", Code: "FF"},
				Character{Glyph: "金", Meaning: "metal", Code: "C"},
			},
		},
		{
			ID:          "phrase",
			Title:       "Short Phrase Drill",
			TitleAlt:    "短句練習",
			Description: "Type an everyday phrase with varying lengths to improve rhythm.",
			Exercises: []Exercise{
				Character{Glyph: "好", Meaning: "good", Code: "VND"},
				Character{Glyph: "學", Meaning: "study", Code: "HBND"},
				Character{Glyph: "習", Meaning: "practice", Code: "SMHA"},
				Character{Glyph: "打", Meaning: "type", Code: "QMN"},
				Character{Glyph: "字", Meaning: "character", Code: "JND"},
			},
		},
		{
			ID:          "sentences",
			Title:       "Sentences",
			TitleAlt:    "句子",
			Description: "Put the characters together into whole lines.",
			Exercises: []Exercise{
				Sentence{Text: "日月明", Meaning: "sun and moon make bright"},
				Sentence{Text: "好學習", Meaning: "study well"},
				Sentence{Text: "打字", Meaning: "typing"},
			},
		},
	}
}
