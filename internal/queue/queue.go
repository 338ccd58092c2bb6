// Package queue buffers the fetched recommendation batch and tracks which
// card is active.
package queue

import "github.com/actuallystonmai/food-swipe/internal/domain"

// Queue is a value type. Replace always allocates a fresh slice and nothing
// writes into it afterwards, so copies of a Queue never observe each
// other's changes.
type Queue struct {
	items  []domain.RecommendationItem
	cursor int
}

func New(batch domain.Batch) Queue {
	var q Queue
	q.Replace(batch)
	return q
}

// Replace installs a new batch and rewinds the cursor.
func (q *Queue) Replace(batch domain.Batch) {
	q.items = append([]domain.RecommendationItem(nil), batch...)
	q.cursor = 0
}

// Advance moves to the next item. It reports false, without moving, when
// the queue is already exhausted.
func (q *Queue) Advance() bool {
	if q.cursor >= len(q.items) {
		return false
	}
	q.cursor++
	return true
}

func (q Queue) Active() (domain.RecommendationItem, bool) {
	if q.cursor >= len(q.items) {
		return domain.RecommendationItem{}, false
	}
	return q.items[q.cursor], true
}

// Peek returns up to n items after the active one.
func (q Queue) Peek(n int) []domain.RecommendationItem {
	if n <= 0 || q.cursor >= len(q.items) {
		return nil
	}
	start := q.cursor + 1
	end := min(start+n, len(q.items))
	if start >= end {
		return nil
	}
	return append([]domain.RecommendationItem(nil), q.items[start:end]...)
}

func (q Queue) IsExhausted() bool {
	return q.cursor == len(q.items)
}

func (q Queue) Cursor() int {
	return q.cursor
}

func (q Queue) Len() int {
	return len(q.items)
}
