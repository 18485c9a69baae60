package core

// Sim is the contract the front ends render against.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Cells() []uint8
}
