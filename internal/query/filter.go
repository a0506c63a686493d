// Package query собирает предикат выборки из набора необязательных фильтров.
//
// Отсутствующий фильтр (пустое значение) не добавляет условия вовсе, поэтому
// пустой Filter означает "без ограничений", а не "ничего не найдено".
package query

// Op — вид сравнения поля со значением.
type Op string

const (
	// OpEq требует точного совпадения скалярного поля.
	OpEq Op = "eq"
	// OpContains требует, чтобы поле-последовательность содержало значение.
	OpContains Op = "contains"
)

// Condition — одно условие конъюнкции.
type Condition struct {
	Field string
	Op    Op
	Value string
}

// Document отдаёт значения поля записи. Для скалярного поля — срез из одного элемента.
type Document interface {
	Values(field string) []string
}

// Filter — конъюнкция условий. Нулевое значение готово к использованию.
type Filter struct {
	conds []Condition
}

// New возвращает пустой фильтр.
func New() Filter {
	return Filter{}
}

// Eq добавляет условие равенства, если value непустое.
func (f Filter) Eq(field, value string) Filter {
	return f.with(field, OpEq, value)
}

// Contains добавляет условие вхождения, если value непустое.
func (f Filter) Contains(field, value string) Filter {
	return f.with(field, OpContains, value)
}

func (f Filter) with(field string, op Op, value string) Filter {
	if value == "" {
		return f
	}
	conds := make([]Condition, len(f.conds), len(f.conds)+1)
	copy(conds, f.conds)
	return Filter{conds: append(conds, Condition{Field: field, Op: op, Value: value})}
}

// Conditions возвращает копию условий в порядке добавления.
func (f Filter) Conditions() []Condition {
	out := make([]Condition, len(f.conds))
	copy(out, f.conds)
	return out
}

// Empty сообщает, что фильтр не ограничивает выборку.
func (f Filter) Empty() bool {
	return len(f.conds) == 0
}

// Match вычисляет фильтр над документом.
func (f Filter) Match(doc Document) bool {
	for _, c := range f.conds {
		if !c.match(doc.Values(c.Field)) {
			return false
		}
	}
	return true
}

func (c Condition) match(values []string) bool {
	switch c.Op {
	case OpEq:
		return len(values) == 1 && values[0] == c.Value
	case OpContains:
		for _, v := range values {
			if v == c.Value {
				return true
			}
		}
		return false
	default:
		return false
	}
}
