package dock

// undoList records how to reverse each change made to a vehicle.
// Replaying runs the entries newest first and empties the list.
type undoList []func()

func (u *undoList) push(fn func()) {
	*u = append(*u, fn)
}

func (u *undoList) replay() int {
	n := len(*u)
	for i := n - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = (*u)[:0]

	return n
}

func (u undoList) pending() int {
	return len(u)
}
