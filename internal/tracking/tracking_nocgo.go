//go:build !cgo

package tracking

// go-sqlite3 needs cgo; without it Open reports ErrCgoDisabled and the
// CLI keeps working without history.
func init() {
	IsCgoEnabled = false
}
