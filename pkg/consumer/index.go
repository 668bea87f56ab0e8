package consumer

// fieldIndex hands out the occurrence index of repeated header or query values.
// Indexing is by name only, whatever the value is.
type fieldIndex map[string]int

func (f fieldIndex) next(name string) int {
	index := f[name]
	f[name] = index + 1
	return index
}
