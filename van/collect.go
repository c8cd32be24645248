package van

import (
	"iter"
)

// Collect accumulates the values of seq that satisfy keep, in order. A nil keep accepts
// everything. The first error aborts the collection and nothing is returned.
func Collect[T any](seq iter.Seq2[T, error], keep func(T) bool) ([]T, error) {
	list := []T{}

	for v, err := range seq {
		if err != nil {
			return nil, err
		}

		if keep == nil || keep(v) {
			list = append(list, v)
		}
	}

	return list, nil
}

// AllowList matches records whose 'name' is one of names.
func AllowList(names ...string) func(Record) bool {
	allowed := map[string]bool{}
	for _, name := range names {
		allowed[name] = true
	}

	return func(r Record) bool {
		name, err := r.String("name")

		return err == nil && allowed[name]
	}
}
