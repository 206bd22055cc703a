package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareSnapshot() []UserNode {
	// 1-2, 1-3, 2-4, 3-4
	return []UserNode{
		{ID: "1", Username: "alice1", Friends: []string{"2", "3"}},
		{ID: "2", Username: "bob2", Friends: []string{"1", "4"}},
		{ID: "3", Username: "carol3", Friends: []string{"1", "4"}},
		{ID: "4", Username: "dave4", Friends: []string{"2", "3"}},
	}
}

func TestRecommendationsSquareGraph(t *testing.T) {
	g := BuildFromSnapshot(squareSnapshot())

	recs := g.Recommendations("1")
	require.Len(t, recs, 1)
	assert.Equal(t, "4", recs[0].ID)
	assert.Equal(t, "dave4", recs[0].Username)
	assert.Equal(t, 2, recs[0].MutualCount)
}

func TestRecommendationsExcludesTargetAndDirectFriends(t *testing.T) {
	g := BuildFromSnapshot(squareSnapshot())

	for _, target := range []string{"1", "2", "3", "4"} {
		direct := map[string]bool{}
		for _, u := range squareSnapshot() {
			if u.ID == target {
				for _, f := range u.Friends {
					direct[f] = true
				}
			}
		}
		for _, rec := range g.Recommendations(target) {
			assert.NotEqual(t, target, rec.ID)
			assert.False(t, direct[rec.ID], "direct friend %s recommended to %s", rec.ID, target)
		}
	}
}

func TestRecommendationsMutualCountsExact(t *testing.T) {
	// 1 is friends with 2, 3, 5. Candidate 4 is adjacent to 2 and 3 but not
	// 5; candidate 6 is adjacent only to 5.
	g := BuildFromSnapshot([]UserNode{
		{ID: "1", Username: "u1", Friends: []string{"2", "3", "5"}},
		{ID: "2", Username: "u2", Friends: []string{"1", "4"}},
		{ID: "3", Username: "u3", Friends: []string{"1", "4"}},
		{ID: "4", Username: "u4", Friends: []string{"2", "3"}},
		{ID: "5", Username: "u5", Friends: []string{"1", "6"}},
		{ID: "6", Username: "u6", Friends: []string{"5"}},
	})

	recs := g.Recommendations("1")
	require.Len(t, recs, 2)
	assert.Equal(t, "4", recs[0].ID)
	assert.Equal(t, 2, recs[0].MutualCount)
	assert.Equal(t, "6", recs[1].ID)
	assert.Equal(t, 1, recs[1].MutualCount)
}

func TestRecommendationsSortedDescendingStable(t *testing.T) {
	// Candidates 4 and 6 both have exactly one mutual friend; 4 is
	// encountered first (via friend 2), so it stays first.
	g := BuildFromSnapshot([]UserNode{
		{ID: "1", Username: "u1", Friends: []string{"2", "3"}},
		{ID: "2", Username: "u2", Friends: []string{"1", "4"}},
		{ID: "3", Username: "u3", Friends: []string{"1", "6"}},
		{ID: "4", Username: "u4", Friends: []string{"2"}},
		{ID: "6", Username: "u6", Friends: []string{"3"}},
	})

	recs := g.Recommendations("1")
	require.Len(t, recs, 2)
	assert.Equal(t, "4", recs[0].ID)
	assert.Equal(t, "6", recs[1].ID)
}

func TestRecommendationsUnknownTarget(t *testing.T) {
	g := BuildFromSnapshot(squareSnapshot())
	assert.Empty(t, g.Recommendations("nope"))
}

func TestRecommendationsNoFriends(t *testing.T) {
	g := BuildFromSnapshot([]UserNode{
		{ID: "1", Username: "loner1"},
		{ID: "2", Username: "u2", Friends: []string{"3"}},
		{ID: "3", Username: "u3", Friends: []string{"2"}},
	})
	assert.Empty(t, g.Recommendations("1"))
}

func TestRecommendationsIdempotent(t *testing.T) {
	snap := squareSnapshot()
	first := BuildFromSnapshot(snap).Recommendations("1")
	second := BuildFromSnapshot(snap).Recommendations("1")
	assert.Equal(t, first, second)

	g := BuildFromSnapshot(snap)
	assert.Equal(t, g.Recommendations("1"), g.Recommendations("1"))
}

func TestAddEdgeToleratesAsymmetricData(t *testing.T) {
	// 2 lists a dangling friend and 3 lists 1 one-sidedly; the build must
	// not fail and the query must still work.
	g := BuildFromSnapshot([]UserNode{
		{ID: "1", Username: "u1", Friends: []string{"2"}},
		{ID: "2", Username: "u2", Friends: []string{"ghost", "4"}},
		{ID: "3", Username: "u3", Friends: []string{"1"}},
		{ID: "4", Username: "u4", Friends: nil},
	})

	// The one-sided 3->1 entry still makes 3 a direct friend, so the only
	// distance-2 candidate is 4 (via 2); the dangling edge is dropped.
	recs := g.Recommendations("1")
	require.Len(t, recs, 1)
	assert.Equal(t, "4", recs[0].ID)
	assert.Equal(t, 1, recs[0].MutualCount)
}

func TestAddEdgeIgnoresSelfLoops(t *testing.T) {
	g := New()
	g.AddUser("1", "u1")
	g.AddEdge("1", "1")
	assert.Empty(t, g.Recommendations("1"))
}
