package tracking

import (
	"fmt"
)

// HandleTrackingNotice displays a notice about history availability
func HandleTrackingNotice() {
	if !IsCgoEnabled {
		fmt.Println("Notice: watch history disabled (CGO not available)")
		fmt.Println("Continue and history features will not be available.")
		fmt.Println()
	}
}
