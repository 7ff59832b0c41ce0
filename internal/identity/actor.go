package identity

import "tourbooking/internal/apperr"

// Actor is the authenticated caller of an operation. A nil *Actor means no session.
type Actor struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

func RequireUser(a *Actor) error {
	if a == nil || a.UserID == "" {
		return apperr.Unauthenticated()
	}
	return nil
}

func RequireAdmin(a *Actor) error {
	if err := RequireUser(a); err != nil {
		return err
	}
	if !a.IsAdmin {
		return apperr.Forbidden()
	}
	return nil
}

// CanSee reports whether a may read a record owned by ownerID.
func (a *Actor) CanSee(ownerID string) bool {
	return a != nil && (a.IsAdmin || a.UserID == ownerID)
}
