package normalize

import (
	"strconv"
	"strings"

	"github.com/narwhalmedia/moviebrowser/pkg/models"
)

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// imagePath maps absent and empty paths to nil and copies the rest so the
// canonical value never aliases the raw record.
func imagePath(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	s := *p
	return &s
}

// parseID converts a string identifier. Unparseable input yields the
// sentinel 0 and an issue.
func parseID(src Source, field, raw string, r *Report) int {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		r.add(src, field, raw, "identifier is not an integer, using 0")
		return 0
	}
	return id
}

func pageNumber(src Source, p *int, r *Report) int {
	if p == nil {
		return 1
	}
	if *p <= 0 {
		r.add(src, "page", strconv.Itoa(*p), "page must be positive, using 1")
		return 1
	}
	return *p
}

// finishPage enforces the PagedResult invariants shared by every provider:
// ids are unique within the page and the reported total never undercounts.
func finishPage(src Source, page *models.PagedResult[models.Movie], r *Report) *models.PagedResult[models.Movie] {
	seen := make(map[int]struct{}, len(page.Results))
	unique := make([]models.Movie, 0, len(page.Results))
	for _, m := range page.Results {
		if _, dup := seen[m.ID]; dup {
			r.add(src, "results.id", strconv.Itoa(m.ID), "duplicate movie id dropped")
			continue
		}
		seen[m.ID] = struct{}{}
		unique = append(unique, m)
	}
	page.Results = unique

	if page.TotalResults < len(page.Results) {
		r.add(src, "total_results", strconv.Itoa(page.TotalResults), "fewer than returned results, raised")
		page.TotalResults = len(page.Results)
	}
	if page.TotalPages < 0 {
		page.TotalPages = 0
	}
	return page
}

func genreIDs(genres []models.Genre) []int {
	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
