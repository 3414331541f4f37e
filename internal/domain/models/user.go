package models

// Identity is what the identity provider tells us about the acting user.
type Identity struct {
	UID           string `json:"uid"`
	DisplayName   string `json:"displayName"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	PhotoURL      string `json:"photoURL"`
}

// Actor returns the short form stored on written records.
func (i Identity) Actor() Actor {
	return Actor{Name: i.DisplayName, UID: i.UID}
}

// UserProfile is the userData document.
type UserProfile struct {
	UID            string `bson:"uid" json:"uid"`
	DisplayName    string `bson:"displayName" json:"displayName"`
	Email          string `bson:"email" json:"email"`
	EmailVerified  bool   `bson:"emailVerified" json:"emailVerified"`
	PhotoURL       string `bson:"photoURL" json:"photoURL"`
	CompletedSteps []int  `bson:"completedSteps" json:"completedSteps"`
}
