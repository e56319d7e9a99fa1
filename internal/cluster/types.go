package cluster

// RangeDescriptor is the wire form of one ring segment as reported by a
// seed: the bounding tokens in their external string form and the addresses
// of every node owning the segment. Token strings are opaque here; parsing
// them is the partitioner's job.
type RangeDescriptor struct {
	StartToken string   `json:"start_token"`
	EndToken   string   `json:"end_token"`
	Endpoints  []string `json:"endpoints"`
}

// DescribeRingResponse is the body of a successful describe-ring call.
type DescribeRingResponse struct {
	Ranges []RangeDescriptor `json:"ranges"`
}
