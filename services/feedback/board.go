package feedbacksvc

import (
	"context"
	"sync"

	"github.com/trezcool/registro/core/gradebook"
)

// Board holds the feedback shown for the current report.
// Requests may overlap: whichever finishes last wins, earlier ones are not cancelled.
type Board struct {
	gen gradebook.FeedbackGenerator

	mu      sync.Mutex
	text    string
	pending int
}

func NewBoard(gen gradebook.FeedbackGenerator) *Board {
	return &Board{gen: gen}
}

// Request generates feedback for rep & shows it once done. The returned channel yields the text then closes.
func (b *Board) Request(ctx context.Context, rep gradebook.Report) <-chan string {
	b.mu.Lock()
	b.pending++
	b.mu.Unlock()

	done := make(chan string, 1)
	go func() {
		defer close(done)
		text := b.gen.GenerateFeedback(ctx, rep.Student.Name, rep.Subject.Name, rep.Grades)

		b.mu.Lock()
		b.text = text
		b.pending--
		b.mu.Unlock()
		done <- text
	}()
	return done
}

// Clear empties the board, eg. when another student or subject is selected.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = ""
}

// Text returns the shown feedback and whether requests are still in flight.
func (b *Board) Text() (text string, loading bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, b.pending > 0
}
