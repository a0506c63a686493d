package postgres

import (
	"sync"

	"github.com/jackc/pgx/v5/pgtype"
)

// rowScanner покрывает *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// pgtype.Map кэширует планы сканирования и не безопасен для конкурентного
// использования, поэтому каждый вызов берёт свой экземпляр из пула.
var typeMaps = sync.Pool{
	New: func() any { return pgtype.NewMap() },
}

func acquireTypeMap() (*pgtype.Map, func()) {
	m := typeMaps.Get().(*pgtype.Map)
	return m, func() { typeMaps.Put(m) }
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
