package services

// Tuned constants carried over from the original planner. The filtering
// exceptions and tier thresholds are deliberate magic numbers; they are
// kept as named values rather than re-derived.
const (
	// Prioritizer.
	interestMatchPoints   = 10.0 // per matched interest category
	attractionPoints      = 15.0
	keywordPoints         = 5.0 // per interest keyword hit in name/description
	neverExcludeReviews   = 5000
	dominanceShare        = 0.5 // category share above which negative filtering applies

	// Clustering.
	epsCapKm            = 2.0
	epsMedianFactor     = 0.8
	noiseReassignFactor = 1.5
	denseDensityMin     = 5.0  // members per km² hull area
	sparseAvgDistKm     = 1.0  // avg intra-cluster distance marking a sparse cluster
	clusterSizeBonus    = 25.0 // priority bonus per member beyond the first

	// Intra-cluster sequencing.
	twoOptMaxPasses    = 100
	twoOptTolKm        = 0.001
	threeOptMaxPasses  = 50
	threeOptMaxSize    = 10
	clarkeWrightMaxLen = 8
	orOptMaxRun        = 3

	// Inter-cluster sequencing.
	exhaustiveMaxClusters = 3
	annealingMaxClusters  = 10
	annealingIterations   = 1000
	annealingCooling      = 0.95
	annealingSeed         = 1
	interDistanceWeight   = 10.0
	denseAdjacencyBonus   = 50.0
	reversalPenalty       = 20.0
	greedyPriorityDivisor = 100.0
	greedyDistanceWeight  = 0.5

	// Selector.
	returnBufferMinMinutes = 20
	returnBufferFraction   = 0.10
	maxPlacesPerDay        = 16
	tierOneReviews         = 5000
	tierTwoMinReviews      = 1000
	synergyRadiusKm        = 0.8
	synergyBoost           = 1.5
	ratingValueWeight      = 10.0
	attractionValue        = 100.0
	matchScoreValueWeight  = 10.0
	interestCountValue     = 20.0

	// Schedule builder.
	backfillSlackMinutes  = 45
	backfillStopMinutes   = 30
	visitFloorMinutes     = 120

	// Multi-day distributor.
	utilizationIdealLow  = 0.70
	utilizationIdealHigh = 0.90
	synergyBandKm        = 3.0
	sharedTypeBonus      = 15.0
	loadBalanceWeight    = 10.0
	openAlignmentWeight  = 30.0
	timeFitWeight        = 100.0
	daySynergyWeight     = 20.0
)

// popularityTiers maps minimum review counts to prioritizer match-score
// bonuses (descending order, first hit wins).
var popularityTiers = []struct {
	MinReviews int
	Bonus      float64
}{
	{50000, 30},
	{20000, 25},
	{10000, 20},
	{5000, 15},
	{2000, 10},
	{1000, 5},
}

// popularityValueTiers maps review counts to selector value bonuses,
// roughly exponential in review count.
var popularityValueTiers = []struct {
	MinReviews int
	Value      float64
}{
	{50000, 500},
	{20000, 350},
	{10000, 240},
	{5000, 160},
	{2000, 100},
	{1000, 60},
	{0, 30},
}
