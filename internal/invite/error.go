package invite

import "errors"

var (
	errUnauthorized     = errors.New("issuer not allowed to create this invite")
	errUnsupportedRole  = errors.New("invites only grant admin, doctor or patient roles")
	errUnsupportedScope = errors.New("global invites are restricted to doctor onboarding")
	errInviteNotFound   = errors.New("invite not found")
	errCodeGeneration   = errors.New("failed to generate a unique invite code")
)
