package sweep

import "strconv"

// noteNames are the 12 chromatic pitch classes starting at C.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName converts a MIDI note number to its name in the middle-C = C4
// convention (octave = note/12 - 1), so 60 is "C4" and 21 is "A0".
// Output filenames depend on this convention; do not change it.
func NoteName(note int) string {
	octave := note/12 - 1
	return noteNames[note%12] + strconv.Itoa(octave)
}

// Sweep is a lazy iterator over the cross product of a note range, a CC
// mapping list and a CC value list. Iteration order is fixed: notes
// ascending, then mappings in slice order, then values in slice order.
// A Sweep is restartable via Reset but not resumable across processes.
type Sweep struct {
	noteMin, noteMax int
	mappings         []CCMapping
	values           []int

	note, mapping, value int // cursor
}

// New builds a sweep over [noteMin, noteMax] x mappings x values.
// The mapping and value slices are referenced, not copied; callers must
// not mutate them while iterating.
func New(noteMin, noteMax int, mappings []CCMapping, values []int) *Sweep {
	s := &Sweep{
		noteMin:  noteMin,
		noteMax:  noteMax,
		mappings: mappings,
		values:   values,
	}
	s.Reset()
	return s
}

// Len returns the total number of jobs the sweep yields.
func (s *Sweep) Len() int {
	if s.noteMax < s.noteMin {
		return 0
	}
	return (s.noteMax - s.noteMin + 1) * len(s.mappings) * len(s.values)
}

// Reset rewinds the sweep to its first job.
func (s *Sweep) Reset() {
	s.note = s.noteMin
	s.mapping = 0
	s.value = 0
}

// Next yields the next job in sweep order. It returns false once the
// cross product is exhausted or either axis is empty.
func (s *Sweep) Next() (Job, bool) {
	if s.note > s.noteMax || len(s.mappings) == 0 || len(s.values) == 0 {
		return Job{}, false
	}

	m := s.mappings[s.mapping]
	job := Job{
		Note:     s.note,
		CCNumber: m.Number,
		CCLabel:  m.Label,
		CCValue:  s.values[s.value],
	}

	// Advance: values fastest, then mappings, then notes.
	s.value++
	if s.value == len(s.values) {
		s.value = 0
		s.mapping++
		if s.mapping == len(s.mappings) {
			s.mapping = 0
			s.note++
		}
	}

	return job, true
}

// Collect drains the sweep from its current position into a slice.
func (s *Sweep) Collect() []Job {
	jobs := make([]Job, 0, s.Len())
	for {
		job, ok := s.Next()
		if !ok {
			return jobs
		}
		jobs = append(jobs, job)
	}
}
