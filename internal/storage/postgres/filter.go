package postgres

import (
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/catalog/internal/query"
)

// orderByID задаёт побайтовый порядок ID, как у in-memory хранилища,
// независимо от collation базы.
const orderByID = ` ORDER BY id COLLATE "C" ASC`

// column описывает, как поле фильтра отображается на колонку таблицы.
type column struct {
	name  string
	array bool
}

// renderFilter строит WHERE-выражение из условий фильтра. Плейсхолдеры
// нумеруются начиная с len(args)+1; возвращается дополненный список аргументов.
func renderFilter(filter query.Filter, columns map[string]column, args []any) (string, []any, error) {
	conds := filter.Conditions()
	if len(conds) == 0 {
		return "", args, nil
	}

	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("filter on unknown field %q", c.Field)
		}
		args = append(args, c.Value)
		placeholder := fmt.Sprintf("$%d", len(args))

		switch {
		case c.Op == query.OpContains && col.array:
			parts = append(parts, placeholder+" = ANY("+col.name+")")
		case c.Op == query.OpEq && !col.array:
			parts = append(parts, col.name+" = "+placeholder)
		default:
			return "", nil, fmt.Errorf("operator %s is not supported for field %q", c.Op, c.Field)
		}
	}

	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// appendPage добавляет OFFSET/LIMIT к запросу.
func appendPage(sqlText string, args []any, offset, limit int) (string, []any) {
	args = append(args, offset, limit)
	return fmt.Sprintf("%s OFFSET $%d LIMIT $%d", sqlText, len(args)-1, len(args)), args
}
