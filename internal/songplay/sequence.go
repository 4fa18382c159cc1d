package songplay

// Sequence hands out songplay surrogate keys: strictly increasing integers,
// unique within one run, assigned in assembly order. It is an explicit
// generator rather than a storage auto-increment so the assembler stays
// storage-agnostic and testable in isolation. Build a fresh Sequence per run.
type Sequence struct {
	next int64
}

// NewSequence starts a sequence at 1.
func NewSequence() *Sequence {
	return &Sequence{next: 1}
}

// Next returns the next surrogate key.
func (s *Sequence) Next() int64 {
	id := s.next
	s.next++
	return id
}
