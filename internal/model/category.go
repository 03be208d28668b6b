package model

// Category is one entry of the externally supplied crawl list. The list is
// immutable for the duration of a run.
type Category struct {
	ID   string
	Name string
}
