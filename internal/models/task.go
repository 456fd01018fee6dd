package models

// Task represents a row awaiting postcode enrichment. Postcode takes
// precedence; Address is only geocoded when Postcode is empty.
type Task struct {
	ID       int    // ID is the unique identifier for the task.
	Postcode string // Postcode as entered by the user, may be empty.
	Address  string // Address is the free-text location of the task.
}
