// Package graph computes friends-of-friends recommendations over a
// point-in-time snapshot of the friendship network. A graph is built fresh
// for each request, queried once or twice, and thrown away; it is never
// shared between goroutines.
package graph

import "sort"

// UserNode is one entry of the network snapshot the graph is built from.
type UserNode struct {
	ID       string
	Username string
	Friends  []string
}

// Recommendation is a distance-2 candidate with the number of mutual friends
// connecting them to the target.
type Recommendation struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	MutualCount int    `json:"mutualCount"`
}

// FriendGraph is an undirected friendship graph as an adjacency structure.
// Per node it keeps both a membership set and an insertion-ordered slice so
// traversal order is deterministic.
type FriendGraph struct {
	adjacency map[string]map[string]bool
	neighbors map[string][]string
	usernames map[string]string
}

// New returns an empty FriendGraph
func New() *FriendGraph {
	return &FriendGraph{
		adjacency: make(map[string]map[string]bool),
		neighbors: make(map[string][]string),
		usernames: make(map[string]string),
	}
}

// BuildFromSnapshot constructs the graph from a network snapshot. Every
// friend entry registers the edge in both directions, so a one-sided entry
// in the underlying data still produces a usable (if incomplete) graph.
func BuildFromSnapshot(users []UserNode) *FriendGraph {
	g := New()
	for _, u := range users {
		g.AddUser(u.ID, u.Username)
	}
	for _, u := range users {
		for _, f := range u.Friends {
			g.AddEdge(u.ID, f)
		}
	}
	return g
}

// AddUser registers a node. Re-adding an existing id is a no-op.
func (g *FriendGraph) AddUser(id, username string) {
	if id == "" {
		return
	}
	if _, ok := g.adjacency[id]; !ok {
		g.adjacency[id] = make(map[string]bool)
		g.usernames[id] = username
	}
}

// AddEdge registers the undirected edge a<->b. Edges referencing unknown
// nodes are ignored rather than failing: an asymmetric or dangling friend
// entry must degrade the result, not crash the query.
func (g *FriendGraph) AddEdge(a, b string) {
	if a == b {
		return
	}
	if _, ok := g.adjacency[a]; !ok {
		return
	}
	if _, ok := g.adjacency[b]; !ok {
		return
	}
	if !g.adjacency[a][b] {
		g.adjacency[a][b] = true
		g.neighbors[a] = append(g.neighbors[a], b)
	}
	if !g.adjacency[b][a] {
		g.adjacency[b][a] = true
		g.neighbors[b] = append(g.neighbors[b], a)
	}
}

// Recommendations returns the users at exactly distance 2 from target,
// ranked by how many of the target's direct friends they share. An unknown
// target yields an empty slice. Ties keep first-encounter order (stable
// sort over deterministic adjacency order); there is deliberately no
// secondary tiebreak.
func (g *FriendGraph) Recommendations(target string) []Recommendation {
	direct, known := g.adjacency[target]
	if !known {
		return []Recommendation{}
	}

	counts := make(map[string]int)
	var order []string

	for _, friend := range g.neighbors[target] {
		for _, candidate := range g.neighbors[friend] {
			if candidate == target || direct[candidate] {
				continue
			}
			if _, seen := counts[candidate]; !seen {
				order = append(order, candidate)
			}
			counts[candidate]++
		}
	}

	recs := make([]Recommendation, 0, len(order))
	for _, id := range order {
		recs = append(recs, Recommendation{
			ID:          id,
			Username:    g.usernames[id],
			MutualCount: counts[id],
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MutualCount > recs[j].MutualCount
	})
	return recs
}
