package bad

//seqgen:derive Builder
type Bad struct {
	Names []string `builder:"eac=name"`
	Count int `builder:"each=count"`
	Build bool
	Item []int `builder:"each=Item"`
	Items []int `builder:"each=Item"`
}
