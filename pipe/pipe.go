package pipe

// OpFuncs runs a series of fallible steps, stopping at the first error.
// Keeps multi-step writes (save, stage, commit) readable without err-check
// ladders
type OpFuncs []func() error

// Do runs each step in order and returns the first error encountered
func (ops OpFuncs) Do() error {
	for _, op := range ops {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}
