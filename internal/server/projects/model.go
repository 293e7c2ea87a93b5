package projects

import "time"

// Project owns a set of named encrypted variables. Every variable value is
// an independent envelope string; the project row itself never holds
// plaintext.
//
// The master-key fields implement the optional re-entry gate:
//   - MasterKeyHash/MasterKeySalt commit to a user-typed private key
//     (salted SHA-256, never recoverable);
//   - MasterKeyEncrypted holds an opaque generated secret for projects
//     without a typed key.
//
// The effective encryption secret for the project's variables is
// MasterKeyHash when present, otherwise MasterKeyEncrypted (see
// SecretForProject). Empty strings mean "absent".
type Project struct {
	ID                 string
	UserID             string
	Name               string
	MasterKeyHash      string
	MasterKeySalt      string
	MasterKeyEncrypted string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
