package none

// Plain is not marked.
type Plain struct {
	A int
}

//seqgen:derived Builder
type Near struct{}
