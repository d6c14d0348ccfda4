package model

// Path represents a file system path.
type Path string

// Report is the structured form of a finished (or timed-out) coverage run.
// Score and Met are pointers so a run with zero goal points serializes them
// as null rather than a misleading zero.
type Report struct {
	Seed       int64       `json:"seed"`
	Iterations int         `json:"iterations"`
	Score      *float64    `json:"score"`
	Met        *bool       `json:"met"`
	Count      int         `json:"count"`
	Points     int         `json:"points"`
	Nets       []NetReport `json:"nets"`
}

// NetReport is the per-net section of a coverage report. Point nets carry
// only Count/Goal; the other kinds list their bins.
type NetReport struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Met   *bool       `json:"met"`
	Count int         `json:"count"`
	Goal  int         `json:"goal"`
	Bins  []BinReport `json:"bins,omitempty"`
}

// BinReport is one partition of a net's sample space and its hit history.
type BinReport struct {
	Name  string      `json:"name"`
	Met   *bool       `json:"met"`
	Count int         `json:"count"`
	Goal  int         `json:"goal"`
	Hits  []HitReport `json:"hits"`
}

// HitReport records how often one raw value landed in a bin.
type HitReport struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
