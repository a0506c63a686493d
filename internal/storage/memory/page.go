package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/query"
)

// matchingIDs возвращает отсортированные по возрастанию ID записей под фильтром.
func matchingIDs[T query.Document](items map[string]T, filter query.Filter) []string {
	ids := make([]string, 0, len(items))
	for id, item := range items {
		if filter.Match(item) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// window вырезает окно offset/limit из отсортированного списка.
func window(ids []string, page domain.Page) []string {
	if page.Limit <= 0 || page.Offset >= len(ids) {
		return nil
	}
	end := len(ids)
	if page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return ids[page.Offset:end]
}
