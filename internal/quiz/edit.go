package quiz

import "sort"

// Add appends q, keeping the existing order.
func (qz *Quiz) Add(q Question) {
	qz.Questions = append(qz.Questions, q)
}

// Remove deletes the questions at the given indices and returns how many were removed.
// Indices refer to positions before the call; duplicates and out-of-range values are ignored.
func (qz *Quiz) Remove(indices ...int) int {
	seen := make(map[int]struct{}, len(indices))
	uniq := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(qz.Questions) {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		uniq = append(uniq, i)
	}
	// highest first so the remaining indices stay put
	sort.Sort(sort.Reverse(sort.IntSlice(uniq)))
	for _, i := range uniq {
		qz.Questions = append(qz.Questions[:i], qz.Questions[i+1:]...)
	}
	return len(uniq)
}

// Reset switches the quiz to t and drops every question.
func (qz *Quiz) Reset(t Type) {
	qz.Type = t
	qz.Questions = []Question{}
}

// AnswerPool returns the correct answers of all fill-in-the-blank questions, in order.
// Students pick blanks from this pool.
func (qz Quiz) AnswerPool() []string {
	pool := []string{}
	for _, q := range qz.Questions {
		if fb, ok := q.(FillInBlankQuestion); ok {
			pool = append(pool, fb.CorrectAnswer)
		}
	}
	return pool
}
