package domain

// ClusterKind classifies a cluster's spatial character.
type ClusterKind string

const (
	ClusterDense  ClusterKind = "dense"
	ClusterSparse ClusterKind = "sparse"
	ClusterSingle ClusterKind = "single"
)

// Cluster is a group of nearby places produced by the clustering engine.
// Places holds the members in route order (set by the intra-cluster
// sequencer), not catalog order.
type Cluster struct {
	ID           int
	Places       []*Place
	Centroid     Coordinates
	Priority     float64
	TotalMinutes int // visit time plus intra-cluster transitions
	Density      float64
	Kind         ClusterKind
}

// Size returns the member count.
func (c *Cluster) Size() int { return len(c.Places) }
