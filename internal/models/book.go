package models

import (
	"sort"
	"strconv"
)

// Book is a catalog entry. Reviews maps a username to that user's review text.
type Book struct {
	ISBN    string            `json:"isbn"`
	Title   string            `json:"title"`
	Author  string            `json:"author"`
	Reviews map[string]string `json:"reviews"`
}

// Clone returns a copy whose Reviews map is not shared with b.
func (b Book) Clone() Book {
	out := b
	out.Reviews = make(map[string]string, len(b.Reviews))
	for u, r := range b.Reviews {
		out.Reviews[u] = r
	}
	return out
}

// SortBooks orders books by ISBN, numerically when both keys are integers.
func SortBooks(books []Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return LessISBN(books[i].ISBN, books[j].ISBN)
	})
}

// LessISBN reports whether a sorts before b.
func LessISBN(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	if aerr == nil {
		return true // integer keys first
	}
	if berr == nil {
		return false
	}
	return a < b
}
