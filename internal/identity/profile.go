package identity

import "time"

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Profile) Actor() *Actor {
	return &Actor{UserID: p.ID, Email: p.Email, Name: p.Name, IsAdmin: p.IsAdmin}
}
