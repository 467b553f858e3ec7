package ports

// Contract for looking up the driving distance in miles between two address ids.
// Implementations must be symmetric and return zero for identical ids.
type DistanceProvider interface {
	Distance(from, to int) float64
}
