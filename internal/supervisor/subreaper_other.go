//go:build !linux

package supervisor

import "github.com/charliek/timebox/internal/domain"

// becomeSubreaper is Linux only. Elsewhere orphans reparent to init and are
// only reached through the process group.
func becomeSubreaper() error {
	return domain.ErrUnsupported
}
