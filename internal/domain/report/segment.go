package report

// CustomerSegment classifies a customer as business or consumer
type CustomerSegment string

const (
	SegmentB2B CustomerSegment = "b2b"
	SegmentB2C CustomerSegment = "b2c"
)

// B2BSet is the report-scoped set of business client ids.
// It is built once per report and never mutated afterwards.
type B2BSet struct {
	ids map[string]struct{}
}

// NewB2BSet builds the set from a client id list
func NewB2BSet(clientIDs []string) B2BSet {
	ids := make(map[string]struct{}, len(clientIDs))
	for _, id := range clientIDs {
		if id == "" {
			continue
		}
		ids[id] = struct{}{}
	}
	return B2BSet{ids: ids}
}

// IsB2B reports whether the customer is on the business list
func (s B2BSet) IsB2B(customerID string) bool {
	_, ok := s.ids[customerID]
	return ok
}

// Classify returns the customer's segment; anyone not on the list is B2C
func (s B2BSet) Classify(customerID string) CustomerSegment {
	if s.IsB2B(customerID) {
		return SegmentB2B
	}
	return SegmentB2C
}

// Len returns the number of business clients
func (s B2BSet) Len() int {
	return len(s.ids)
}
