//go:build linux

package supervisor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// becomeSubreaper makes orphaned descendants reparent to this process
// instead of init, so the reap loop sees them exit
func becomeSubreaper() error {
	if err := unix.Prctl(unix.PR_SET_CHILD_SUBREAPER, 1, 0, 0, 0); err != nil {
		return fmt.Errorf("prctl(PR_SET_CHILD_SUBREAPER): %w", err)
	}
	return nil
}
