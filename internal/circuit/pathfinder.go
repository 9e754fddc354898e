package circuit

// Path is an ordered sequence of node ids discovered by FindPath.
type Path []string

// Contains reports whether id lies on the path.
func (p Path) Contains(id string) bool {
	for _, v := range p {
		if v == id {
			return true
		}
	}
	return false
}

// EdgeFilter restricts which edges a search may traverse.
type EdgeFilter func(Edge) bool

// AnyEdge accepts every edge.
func AnyEdge(Edge) bool { return true }

// PowerEdges accepts edges that feed a power handle or leave it unspecified.
func PowerEdges(e Edge) bool {
	return e.TargetHandle == HandlePower || e.TargetHandle == HandleNone
}

// GroundEdges accepts edges leaving a ground handle or leaving it unspecified.
func GroundEdges(e Edge) bool {
	return e.SourceHandle == HandleGround || e.SourceHandle == HandleNone
}

// FindPath runs a depth-first search from start to target over the edges that
// pass filter, trying outgoing edges in input order.
//
// The returned path includes both endpoints. When start == target the result
// is a closed loop [start, ..., start] with at least one node in between; a
// bare self-edge never counts. Every node is expanded at most once, so the
// search terminates on cyclic graphs and examines each edge at most once.
func FindPath(g *Graph, start, target string, filter EdgeFilter) (Path, bool) {
	if g.Node(start) == nil || g.Node(target) == nil {
		return nil, false
	}
	if filter == nil {
		filter = AnyEdge
	}
	s := &search{
		g:       g,
		target:  target,
		filter:  filter,
		visited: make(map[string]struct{}, g.NodeCount()),
		path:    make(Path, 0, g.NodeCount()+1),
	}
	if !s.walk(start) {
		return nil, false
	}
	return s.path, true
}

type search struct {
	g       *Graph
	target  string
	filter  EdgeFilter
	visited map[string]struct{}
	path    Path
}

func (s *search) walk(current string) bool {
	if _, seen := s.visited[current]; seen {
		return false
	}
	s.visited[current] = struct{}{}
	s.path = append(s.path, current)

	for _, e := range s.g.Outgoing(current) {
		if !s.filter(e) {
			continue
		}
		if e.Target == s.target && (e.Target != s.path[0] || len(s.path) > 1) {
			s.path = append(s.path, e.Target)
			return true
		}
		if s.walk(e.Target) {
			return true
		}
	}

	// Dead end: backtrack.
	s.path = s.path[:len(s.path)-1]
	return false
}
