package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

// DisplayLimit is how many cast members and recommendations a detail view shows.
const DisplayLimit = 10

// FormatDate renders an ISO date as "January 2, 2006". Input that is not a
// date is returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return s
		}
	}
	return t.Format("January 2, 2006")
}

// FormatRuntime renders a runtime in minutes as "Xh Ym".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	hours, rest := minutes/60, minutes%60
	if hours == 0 {
		return fmt.Sprintf("%dm", rest)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}

// FormatRating renders a vote average with one decimal.
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// Certification maps the adult flag to a display label. This is a
// placeholder; providers do not return release certifications here.
func Certification(adult bool) string {
	if adult {
		return "R"
	}
	return "PG-13"
}

// TruncateText shortens text to maxLength characters, trims trailing
// whitespace and appends "...". Shorter text is returned as is.
func TruncateText(text string, maxLength int) string {
	if maxLength < 0 {
		maxLength = 0
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimRightFunc(string(runes[:maxLength]), unicode.IsSpace) + "..."
}

// KeyCrew returns the directors and writers of a crew list in provider order.
// The job match is case sensitive.
func KeyCrew(crew []models.Crew) []models.Crew {
	out := make([]models.Crew, 0, len(crew))
	for _, c := range crew {
		if c.Job == "Director" || c.Job == "Writer" {
			out = append(out, c)
		}
	}
	return out
}

// Limit returns at most the first n elements of s.
func Limit[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
