package identity

import (
	"context"
	"time"
)

type ProfileStore interface {
	Ensure(ctx context.Context, id, email, name string) (*Profile, error)
}

// Authenticator turns a bearer token into an Actor backed by its profile row.
type Authenticator struct {
	Secret   string
	Audience string
	Profiles ProfileStore
	Now      func() time.Time
}

func (a Authenticator) Authenticate(ctx context.Context, token string) (*Actor, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	sess, err := VerifySessionToken(token, a.Audience, a.Secret, now())
	if err != nil {
		return nil, err
	}
	p, err := a.Profiles.Ensure(ctx, sess.UserID, sess.Email, sess.Name)
	if err != nil {
		return nil, err
	}
	return p.Actor(), nil
}
