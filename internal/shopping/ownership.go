package shopping

import (
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

// Authorize allows callerID to act on l. A nil list is ErrNotFound; a list
// owned by someone else is ErrForbidden, never ErrNotFound.
func Authorize(l *model.List, callerID string) error {
	if l == nil {
		return fmt.Errorf("list: %w", ErrNotFound)
	}
	if l.UserID != callerID {
		return fmt.Errorf("list %s: %w", l.ID, ErrForbidden)
	}
	return nil
}
