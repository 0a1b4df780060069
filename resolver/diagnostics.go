package resolver

import "sync"

// Diagnostic records enrichment that was skipped or degraded without failing
// the import.
type Diagnostic struct {
	Source  string `json:"source"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error returns the underlying error text, if any.
func (d Diagnostic) Error() string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}

// Diagnostics collects Diagnostic records for one import attempt.
type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Add records a diagnostic.
func (d *Diagnostics) Add(source, message string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, Diagnostic{Source: source, Message: message, Err: err})
}

// Items returns the recorded diagnostics in insertion order.
func (d *Diagnostics) Items() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Diagnostic(nil), d.items...)
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
