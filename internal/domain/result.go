package domain

// ImportStatus represents the terminal outcome of an import run.
// Values include ImportStatusLocked, ImportStatusSuccess, and ImportStatusError.
type ImportStatus string

const (
	ImportStatusLocked  ImportStatus = "locked"
	ImportStatusSuccess ImportStatus = "success"
	ImportStatusError   ImportStatus = "error"
)

// ImportResult is the final outcome of one import run, built once and
// returned to the caller. Errors holds per-record failures in
// "<bioguideId>: <message>" form and is omitted from JSON when empty.
type ImportResult struct {
	Status   ImportStatus `json:"status"`
	Imported int          `json:"imported"`
	Updated  int          `json:"updated"`
	Errors   []string     `json:"errors,omitempty"`
	Message  string       `json:"message,omitempty"`
}
