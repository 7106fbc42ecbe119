package domain

// OpenMode selects what happens to a resolved search result: resume the
// session, export its transcript, both, or nothing. Decided once at the
// CLI boundary and passed by value.
type OpenMode int

const (
	OpenNone OpenMode = iota
	OpenResume
	OpenExport
	OpenBoth
)

func (m OpenMode) Resume() bool {
	return m == OpenResume || m == OpenBoth
}

func (m OpenMode) Export() bool {
	return m == OpenExport || m == OpenBoth
}
