// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes accuracy and speed (correct per minute) for a run.
// Elapsed time is floored at one second.
func SessionMetrics(correct, incorrect int, elapsed time.Duration) (accuracy, speed float64) {
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	speed = float64(correct) / elapsed.Minutes()
	return accuracy, speed
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints profile-wide counters.
func RenderSummary(w io.Writer, r Report, useColor bool) error {
	lines := []string{
		fmt.Sprintf("Profile: %s", r.ProfileName),
		fmt.Sprintf("Known characters: %d", r.Known),
		fmt.Sprintf("Learned today: %d", r.LearnedToday),
		fmt.Sprintf("Due for review: %d", r.Due),
		fmt.Sprintf("Lessons completed: %d", r.Summary.TotalSessions),
		fmt.Sprintf("Streak: %s (longest %d)", colorize(fmt.Sprintf("%d", r.Summary.Streak), streakColor(r.Summary.Streak), useColor), r.Summary.LongestStreak),
	}
	if len(r.DueUnits) > 0 {
		lines = append(lines, fmt.Sprintf("Review next: %s", strings.Join(r.DueUnits, " ")))
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLessons prints per-lesson completion counts and bests.
func RenderLessons(w io.Writer, r Report) error {
	if _, err := fmt.Fprintln(w, "Lessons"); err != nil {
		return err
	}
	headers := []string{"Lesson", "Exercises", "Runs", "Best Accuracy", "Best Speed"}
	rows := make([][]string, 0, len(r.Lessons))
	for _, l := range r.Lessons {
		best, speed := "-", "-"
		if l.Completion.Count > 0 {
			best = fmt.Sprintf("%.1f%%", l.Completion.BestAccuracy*100)
			speed = fmt.Sprintf("%.2f", l.Completion.BestSpeed)
		}
		rows = append(rows, []string{
			l.Title,
			fmt.Sprintf("%d", l.Exercises),
			fmt.Sprintf("%d", l.Completion.Count),
			best,
			speed,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistory prints recent lesson runs, oldest first, with an accuracy sparkline.
func RenderHistory(w io.Writer, r Report, last, window int) error {
	if len(r.Attempts) == 0 {
		_, err := fmt.Fprintln(w, "No lesson runs yet.")
		return err
	}
	runs := r.Attempts
	if last > 0 && len(runs) > last {
		runs = runs[:last]
	}
	// Attempts are stored newest first.
	ordered := make([]historyRow, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		ordered = append(ordered, historyRow{
			lesson:   r.lessonTitle(runs[i].LessonID),
			accuracy: runs[i].Accuracy,
			speed:    runs[i].Speed,
			at:       runs[i].CompletedAt,
		})
	}

	accs := make([]float64, len(ordered))
	for i, row := range ordered {
		accs[i] = row.accuracy * 100
	}
	spark := Sparkline(MovingAverage(accs, window))
	if room := terminalWidth() - len("Accuracy: "); room > 0 && len(spark) > room {
		spark = spark[len(spark)-room:]
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %s\n", spark); err != nil {
		return err
	}

	headers := []string{"Completed", "Lesson", "Accuracy", "Speed"}
	rows := make([][]string, 0, len(ordered))
	for _, row := range ordered {
		rows = append(rows, []string{
			row.at.Local().Format("2006-01-02 15:04"),
			row.lesson,
			fmt.Sprintf("%.1f%%", row.accuracy*100),
			fmt.Sprintf("%.2f", row.speed),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

type historyRow struct {
	lesson   string
	accuracy float64
	speed    float64
	at       time.Time
}
