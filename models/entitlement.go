package models

import "encoding/json"

// Entitlement is either Metered with a non-negative number of remaining
// analyses or Unlimited. The zero value is Metered(0).
type Entitlement struct {
	unlimited bool
	remaining int
}

// Metered returns a metered entitlement. Negative counts are floored at 0.
func Metered(remaining int) Entitlement {
	if remaining < 0 {
		remaining = 0
	}
	return Entitlement{remaining: remaining}
}

// Unlimited returns the pro entitlement.
func Unlimited() Entitlement {
	return Entitlement{unlimited: true}
}

func (e Entitlement) IsUnlimited() bool {
	return e.unlimited
}

// Remaining returns the metered count. ok is false for Unlimited.
func (e Entitlement) Remaining() (n int, ok bool) {
	if e.unlimited {
		return 0, false
	}
	return e.remaining, true
}

// CanConsume reports whether one more analysis is allowed.
func (e Entitlement) CanConsume() bool {
	return e.unlimited || e.remaining > 0
}

// Consume returns the entitlement after one analysis.
func (e Entitlement) Consume() Entitlement {
	if e.unlimited {
		return e
	}
	return Metered(e.remaining - 1)
}

type userJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsPro   bool   `json:"isPro"`
	Credits *int   `json:"credits"`
}

// MarshalJSON renders credits as null for unlimited users.
func (u User) MarshalJSON() ([]byte, error) {
	out := userJSON{ID: u.ID, Name: u.Name, Email: u.Email, IsPro: u.IsPro()}
	if n, ok := u.Entitlement.Remaining(); ok {
		out.Credits = &n
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
func (u *User) UnmarshalJSON(data []byte) error {
	var in userJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	u.ID, u.Name, u.Email = in.ID, in.Name, in.Email
	switch {
	case in.IsPro:
		u.Entitlement = Unlimited()
	case in.Credits != nil:
		u.Entitlement = Metered(*in.Credits)
	default:
		u.Entitlement = Metered(0)
	}
	return nil
}
