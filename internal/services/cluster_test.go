package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/domain"
)

// Five places within a few hundred meters of each other form one cluster.
func TestBuildClustersGroupsNearbyPlaces(t *testing.T) {
	places := []*domain.Place{
		testPlace("p0", 35.0000, 135.0000),
		testPlace("p1", 35.0010, 135.0000),
		testPlace("p2", 35.0020, 135.0000),
		testPlace("p3", 35.0030, 135.0000),
		testPlace("p4", 35.0040, 135.0000),
	}

	clusters := BuildClusters(places)
	require.Len(t, clusters, 1)
	assert.Equal(t, 5, clusters[0].Size())
}

func TestBuildClustersPromotesOutlierToSingleton(t *testing.T) {
	places := []*domain.Place{
		testPlace("p0", 35.0000, 135.0000),
		testPlace("p1", 35.0005, 135.0000),
		testPlace("p2", 35.0010, 135.0000),
		testPlace("p3", 35.0015, 135.0000),
		// Roughly 10 km north of the blob.
		testPlace("far", 35.0900, 135.0000),
	}

	clusters := BuildClusters(places)
	require.Len(t, clusters, 2)

	var single *domain.Cluster
	for _, c := range clusters {
		if c.Size() == 1 {
			single = c
		}
	}
	require.NotNil(t, single, "outlier should become its own cluster")
	assert.Equal(t, domain.ClusterSingle, single.Kind)
	assert.Equal(t, "far", single.Places[0].ID)
}

func TestBuildClustersIsDeterministic(t *testing.T) {
	build := func() []*domain.Cluster {
		return BuildClusters([]*domain.Place{
			testPlace("p0", 35.0000, 135.0000),
			testPlace("p1", 35.0012, 135.0004),
			testPlace("p2", 35.0021, 135.0011),
			testPlace("p3", 35.0500, 135.0500),
			testPlace("p4", 35.0510, 135.0505),
			testPlace("p5", 35.0523, 135.0512),
		})
	}

	first := build()
	second := build()
	require.Equal(t, len(first), len(second))
	for i := range first {
		var a, b []string
		for _, p := range first[i].Places {
			a = append(a, p.ID)
		}
		for _, p := range second[i].Places {
			b = append(b, p.ID)
		}
		assert.Equal(t, a, b, "cluster %d member order changed between runs", i)
	}
}

func TestSummarizeClusterKinds(t *testing.T) {
	// A tight, collinear blob has zero hull area and a small average
	// spacing: maximally dense.
	tight := []*domain.Place{
		testPlace("t0", 35.0000, 135.0000),
		testPlace("t1", 35.0010, 135.0000),
		testPlace("t2", 35.0020, 135.0000),
	}
	c := summarizeCluster(0, tight)
	assert.Equal(t, domain.ClusterDense, c.Kind)

	// Members kilometers apart stay sparse.
	spread := []*domain.Place{
		testPlace("s0", 35.00, 135.00),
		testPlace("s1", 35.03, 135.00),
		testPlace("s2", 35.00, 135.03),
	}
	c = summarizeCluster(1, spread)
	assert.Equal(t, domain.ClusterSparse, c.Kind)
}

func TestClusterPriorityRewardsSize(t *testing.T) {
	solo := summarizeCluster(0, []*domain.Place{testPlace("a", 35, 135)})
	pair := summarizeCluster(1, []*domain.Place{
		testPlace("a", 35, 135),
		testPlace("b", 35.001, 135),
	})
	assert.Greater(t, pair.Priority, solo.Priority)
}
