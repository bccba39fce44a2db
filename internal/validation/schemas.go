package validation

import "strings"

// Request schemas. Bounds are part of the API contract and must not drift:
// clients and the stored data both rely on them.

type RegisterArtist struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Surname  string `json:"surname" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Address  string `json:"address" validate:"required,min=5,max=200"`
}

// Normalize trims every field and lower-cases the email before validation,
// so length checks apply to the canonical value.
func (r *RegisterArtist) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Address = strings.TrimSpace(r.Address)
}

type LoginArtist struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (l *LoginArtist) Normalize() {
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
}

// UpdateProfile is a partial update: absent fields keep their stored value.
type UpdateProfile struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Surname *string `json:"surname,omitempty" validate:"omitempty,min=2,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=5,max=200"`
}

func (u *UpdateProfile) Normalize() {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	u.Name = trim(u.Name)
	u.Surname = trim(u.Surname)
	u.Address = trim(u.Address)
}

// ArtworkInput covers both create and update payloads. CopiesAvailable is a
// pointer so an explicit 0 passes the required check.
type ArtworkInput struct {
	Title           string   `json:"title" validate:"required,min=3,max=100"`
	Description     string   `json:"description" validate:"required,min=10,max=500"`
	CopiesAvailable *int     `json:"copiesAvailable" validate:"required,min=0,max=1000"`
	Tags            []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=20"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

func (a *ArtworkInput) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)
	for i, tag := range a.Tags {
		a.Tags[i] = strings.TrimSpace(tag)
	}
}

// SearchQuery validates the public gallery query string. Page and Limit are
// pointers so an explicit 0 is rejected rather than silently defaulted.
type SearchQuery struct {
	Q      string `json:"q" validate:"omitempty,max=100"`
	Artist string `json:"artist" validate:"omitempty,max=50"`
	Tags   string `json:"tags" validate:"omitempty,max=100"`
	Sort   string `json:"sort" validate:"omitempty,oneof=newest oldest popular title"`
	Page   *int   `json:"page" validate:"omitempty,min=1,max=100"`
	Limit  *int   `json:"limit" validate:"omitempty,min=1,max=50"`
}
