package typegraph

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// findCycle walks the directed edges given by next from every start, in
// order, and returns the first cycle found as a path that begins and ends
// with the same name. It returns nil when the graph is acyclic.
func findCycle(starts []string, next func(string) []string) []string {
	states := make(map[string]visitState, len(starts))
	var stack []string

	var visit func(key string) []string
	visit = func(key string) []string {
		switch states[key] {
		case stateVisiting:
			for i, s := range stack {
				if s == key {
					return append(append([]string(nil), stack[i:]...), key)
				}
			}
			return []string{key, key}
		case stateDone:
			return nil
		}
		states[key] = stateVisiting
		stack = append(stack, key)
		for _, n := range next(key) {
			if cycle := visit(n); cycle != nil {
				return cycle
			}
		}
		stack = stack[:len(stack)-1]
		states[key] = stateDone
		return nil
	}

	for _, s := range starts {
		if cycle := visit(s); cycle != nil {
			return cycle
		}
	}
	return nil
}
