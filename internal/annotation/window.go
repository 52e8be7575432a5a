package annotation

// ActiveSet tracks which annotations are visible as the frame cursor
// advances. The caller must visit every frame index exactly once, in order,
// starting at 0.
//
// Members are kept in activation order, so expired annotations are always at
// the front and eviction pops from the head instead of rescanning the whole
// set. Each annotation enters the set at most once and never re-activates
// after eviction.
type ActiveSet struct {
	schedule     Schedule
	windowFrames int
	queue        []Scheduled
	head         int
}

// NewActiveSet returns an empty ActiveSet over the given schedule.
// windowFrames is how many frames past activation an annotation stays
// visible; see WindowFrames.
func NewActiveSet(schedule Schedule, windowFrames int) *ActiveSet {
	return &ActiveSet{
		schedule:     schedule,
		windowFrames: windowFrames,
	}
}

// Advance moves the cursor to frame idx and returns the annotations visible
// on that frame. An annotation is visible from its activation frame through
// windowFrames frames after it, inclusive, and is evicted on the frame after
// that. The returned slice is owned by the ActiveSet and only valid until
// the next Advance call.
//
// Evicted slots are zeroed, and the queue compacts once the dead prefix
// reaches the live half, so a long video never pins expired annotations.
func (as *ActiveSet) Advance(idx int) []Scheduled {
	if bucket, ok := as.schedule[idx]; ok {
		as.queue = append(as.queue, bucket...)
	}
	for as.head < len(as.queue) && idx-as.queue[as.head].Frame > as.windowFrames {
		as.queue[as.head] = Scheduled{}
		as.head++
	}
	if as.head > 0 && as.head*2 >= len(as.queue) {
		n := copy(as.queue, as.queue[as.head:])
		for i := n; i < len(as.queue); i++ {
			as.queue[i] = Scheduled{}
		}
		as.queue = as.queue[:n]
		as.head = 0
	}
	return as.queue[as.head:]
}

// Len reports the current number of visible annotations.
func (as *ActiveSet) Len() int {
	return len(as.queue) - as.head
}
