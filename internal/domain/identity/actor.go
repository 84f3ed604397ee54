package identity

// Actor is a snapshot of the user performing an operation. It is resolved by
// the request pipeline (JWT claims) and copied into ledger entries, order
// history, and audit records so they stay meaningful after the user changes.
type Actor struct {
	UserID string `gorm:"type:varchar(64)" json:"userId"`
	Email  string `gorm:"type:varchar(255)" json:"email"`
	Role   string `gorm:"type:varchar(100)" json:"role"`
}

// Anonymous returns the actor used for guest flows (public checkout, signup)
func Anonymous() Actor {
	return Actor{UserID: "", Email: "guest", Role: "guest"}
}

// IsAnonymous returns true if the actor has no resolved user identity
func (a Actor) IsAnonymous() bool {
	return a.UserID == ""
}
