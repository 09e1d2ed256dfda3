package stats

import "sort"

// TopLessons returns the n most practised lessons, ties broken by id.
func TopLessons(rows []LessonRow, n int) []LessonRow {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	items := make([]LessonRow, len(rows))
	copy(items, rows)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Completion.Count == items[j].Completion.Count {
			return items[i].ID < items[j].ID
		}
		return items[i].Completion.Count > items[j].Completion.Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
