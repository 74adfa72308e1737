package values

// A Function is one entry of a source unit's function table. It is built once, by the
// parser or by the cache, and never modified afterwards.
type Function struct {
	Name   string
	Params []string
	Body   [][]Value
}

type FunctionTable []Function

// Lookup returns the first function with the given name. Functions of a unit come before
// the functions it imports, so a unit's own definitions win.
func (ft FunctionTable) Lookup(name string) (*Function, bool) {
	for i := range ft {
		if ft[i].Name == name {
			return &ft[i], true
		}
	}
	return nil, false
}

func (ft FunctionTable) Names() []string {
	names := make([]string, 0, len(ft))
	for _, fn := range ft {
		names = append(names, fn.Name)
	}
	return names
}
