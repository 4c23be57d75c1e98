package graph

// Summary is a JSON-friendly rendering of one BindingGraph, used by
// cmd/bindgraph to persist a run and by httpserver to serve one back.
// It deliberately exposes only what a caller outside this package can
// already reach through BindingGraph's accessors.
type Summary struct {
	ComponentType string    `json:"componentType"`
	Kind          int       `json:"kind"`
	IsFull        bool      `json:"isFull"`
	Requirements  []string  `json:"componentRequirements"`
	ResolvedKeys  []string  `json:"resolvedKeys"`
	Subgraphs     []Summary `json:"subgraphs,omitempty"`
}

// Summarize renders g and every descendant subgraph into a Summary tree.
func Summarize(g *BindingGraph) Summary {
	s := Summary{
		ComponentType: g.descriptor.ComponentType,
		Kind:          int(g.descriptor.Kind),
		IsFull:        g.isFull,
		Requirements:  g.ComponentRequirements(),
		ResolvedKeys:  g.ResolvedKeys(),
	}
	for _, sg := range g.subgraphs {
		s.Subgraphs = append(s.Subgraphs, Summarize(sg))
	}
	return s
}
