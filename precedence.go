package npsched

// Precedence is a directed edge: From must finish before To becomes ready.
type Precedence struct {
	From JobID
	To   JobID
}
