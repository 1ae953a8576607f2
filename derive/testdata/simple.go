package simple

import (
	"time"

	ns "net/netip"
)

// Options is not derived.
type Options struct {
	Verbose bool
}

type (
	// Point is derived.
	//
	//seqgen:derive Debug Builder
	Point struct {
		X, Y int `debug:"%d"`
		_    int
		Addr *ns.Addr
	}

	//seqgen:derive Debug
	Empty struct{}
)

//seqgen:derive Builder
type Timer struct {
	Every time.Duration
	Ticks []time.Time `builder:"each=Tick"`
}
