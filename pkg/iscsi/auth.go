package iscsi

// AuthMethod is the authentication method tag stored in the configuration
// trees. Only the tag is persisted there; CHAP secret material lives in the
// credential vault.
type AuthMethod string

// Authentication method tags as persisted under the "Authentication" key.
const (
	AuthMethodNone AuthMethod = "None"
	AuthMethodCHAP AuthMethod = "CHAP"
)

// Auth describes how a node authenticates. The zero value is not meaningful;
// construct with AuthNone or AuthCHAP.
type Auth struct {
	// Method selects the authentication scheme.
	Method AuthMethod

	// User is the CHAP account name. Empty unless Method is CHAP.
	User string

	// Secret is the CHAP shared secret. Empty unless Method is CHAP.
	// Never log this field directly; wrap it in logging.Secret.
	Secret string
}

// AuthNone returns the no-authentication variant.
func AuthNone() Auth {
	return Auth{Method: AuthMethodNone}
}

// AuthCHAP returns a CHAP authentication object for the given account and
// shared secret.
func AuthCHAP(user, secret string) Auth {
	return Auth{Method: AuthMethodCHAP, User: user, Secret: secret}
}

// IsCHAP reports whether the method tag is exactly the CHAP tag. Any other
// value, including unknown future tags and the empty string, is treated as
// no authentication.
func (m AuthMethod) IsCHAP() bool {
	return m == AuthMethodCHAP
}
