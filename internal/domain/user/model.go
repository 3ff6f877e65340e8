package user

// Principal is the verified identity attached to a request. The companion
// treats it as opaque input: session issuance and validation live in the
// external account service.
type Principal struct {
	UserID string
	Email  string
}
