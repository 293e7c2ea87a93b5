package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on authenticated API requests.
const AccessTokenHeaderName = "Authorization"
