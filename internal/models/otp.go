package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpTTL is how long a verification code stays valid.
const OtpTTL = 5 * time.Minute

// Otp is a short-lived email verification code (MongoDB). At most one code
// is kept per email; requesting a new code replaces any previous one.
type Otp struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Code      string             `json:"otp" bson:"otp"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Expired reports whether the code is past its validity window
func (o *Otp) Expired(now time.Time) bool {
	return now.Sub(o.CreatedAt) > OtpTTL
}
