package annotation

import "testing"

func TestActiveSetVisibilityWindow(t *testing.T) {
	// fps=30, window=2.0s: an annotation at 1000ms activates at frame 30
	// and must be visible on frames 30..90 inclusive, gone at 91.
	annotations := []Annotation{
		{Name: "boat", Confidence: 88.0, Timestamp: 1000},
	}
	fps := 30.0
	schedule := BuildSchedule(annotations, fps)
	windowFrames := WindowFrames(fps, 2.0)
	if windowFrames != 60 {
		t.Fatalf("expected window of 60 frames, got %d", windowFrames)
	}

	as := NewActiveSet(schedule, windowFrames)
	for idx := 0; idx <= 120; idx++ {
		active := as.Advance(idx)
		visible := len(active) == 1
		expectVisible := idx >= 30 && idx <= 90
		if visible != expectVisible {
			t.Fatalf("frame %d: visible=%v, expected %v", idx, visible, expectVisible)
		}
	}
}

func TestActiveSetInsertionOrder(t *testing.T) {
	annotations := []Annotation{
		{Name: "early", Timestamp: 0},
		{Name: "bucket-a", Timestamp: 500},
		{Name: "bucket-b", Timestamp: 505},
	}
	fps := 25.0
	as := NewActiveSet(BuildSchedule(annotations, fps), WindowFrames(fps, 2.0))

	var active []Scheduled
	for idx := 0; idx <= 12; idx++ {
		active = as.Advance(idx)
	}

	// New bucket members append after existing members, in bucket order.
	expected := []string{"early", "bucket-a", "bucket-b"}
	if len(active) != len(expected) {
		t.Fatalf("expected %d active annotations, got %d", len(expected), len(active))
	}
	for i, name := range expected {
		if active[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, active[i].Name)
		}
	}
}

func TestActiveSetNoReactivation(t *testing.T) {
	annotations := []Annotation{
		{Name: "once", Timestamp: 0},
	}
	fps := 10.0
	windowFrames := WindowFrames(fps, 1.0)
	as := NewActiveSet(BuildSchedule(annotations, fps), windowFrames)

	for idx := 0; idx <= windowFrames; idx++ {
		if got := len(as.Advance(idx)); got != 1 {
			t.Fatalf("frame %d: expected annotation visible, got %d active", idx, got)
		}
	}
	for idx := windowFrames + 1; idx <= windowFrames*3; idx++ {
		if got := len(as.Advance(idx)); got != 0 {
			t.Fatalf("frame %d: annotation re-activated, %d active", idx, got)
		}
	}
}

func TestActiveSetZeroWindow(t *testing.T) {
	annotations := []Annotation{
		{Name: "blink", Timestamp: 0},
	}
	as := NewActiveSet(BuildSchedule(annotations, 30.0), 0)

	if got := len(as.Advance(0)); got != 1 {
		t.Fatalf("expected annotation visible on its activation frame, got %d", got)
	}
	if got := len(as.Advance(1)); got != 0 {
		t.Fatalf("expected annotation evicted one frame later, got %d", got)
	}
}

func TestActiveSetSustainedChurn(t *testing.T) {
	// One annotation every 100ms at fps=10 activates one per frame, so the
	// set churns through hundreds of evictions and internal compactions.
	// Visibility must stay exact throughout: annotation i is visible on
	// frames i..i+10 inclusive.
	const count = 200
	fps := 10.0
	annotations := make([]Annotation, 0, count)
	for i := 0; i < count; i++ {
		annotations = append(annotations, Annotation{
			Name:      "obj",
			Timestamp: int64(i * 100),
		})
	}
	windowFrames := WindowFrames(fps, 1.0)
	as := NewActiveSet(BuildSchedule(annotations, fps), windowFrames)

	for idx := 0; idx <= count+windowFrames+5; idx++ {
		active := as.Advance(idx)

		first := idx - windowFrames
		if first < 0 {
			first = 0
		}
		last := idx
		if last > count-1 {
			last = count - 1
		}
		want := last - first + 1
		if first > count-1 {
			want = 0
		}

		if len(active) != want {
			t.Fatalf("frame %d: %d active, expected %d", idx, len(active), want)
		}
		if as.Len() != want {
			t.Fatalf("frame %d: Len=%d, expected %d", idx, as.Len(), want)
		}
		for i, sc := range active {
			if sc.Frame != first+i {
				t.Fatalf("frame %d: position %d has activation frame %d, expected %d", idx, i, sc.Frame, first+i)
			}
		}
	}
}

func TestActiveSetEmptySchedule(t *testing.T) {
	as := NewActiveSet(Schedule{}, 60)
	for idx := 0; idx < 10; idx++ {
		if got := len(as.Advance(idx)); got != 0 {
			t.Fatalf("frame %d: expected empty active set, got %d", idx, got)
		}
	}
	if as.Len() != 0 {
		t.Errorf("expected Len 0, got %d", as.Len())
	}
}
