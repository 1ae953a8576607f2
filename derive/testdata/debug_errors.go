package bad

// Secret holds a password.
//
//seqgen:derive Debug
type Secret struct {
	User string `debug:"q"`
	Password string `debug:"%s%s"`
	GoString string
}

//seqgen:derive Debug Display
type Unknown struct{}

//seqgen:derive Builder
type Generic[T any] struct{ V T }

//seqgen:derive Debug
type NotStruct int

//seqgen:derive Builder
type Embedded struct {
	Secret
}
