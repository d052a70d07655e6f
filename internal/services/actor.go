package services

// Actor is the authenticated caller as services see it.
type Actor struct {
	ID    string
	Role  string
	Admin bool
}
