package types

import (
	"time"

	"github.com/google/uuid"
)

// Credential is a record asserting that an actor acted on a learning plan.
// Its fields are the exact payload the issuer signs; any mutation after
// issuance invalidates the signature.
type Credential struct {
	ID          uuid.UUID `json:"id"`
	Actor       string    `json:"actor"`
	Goal        string    `json:"goal"`
	PathSummary string    `json:"path_summary"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UnsignedSentinel is the signature value of a credential issued in degraded
// mode (no signing secret available). It must never verify as valid.
const UnsignedSentinel = "UNSIGNED"

// IssuedCredential bundles a credential with the outputs of signing it. The
// signature and anchor ref travel alongside the credential but are not part
// of the signed payload.
type IssuedCredential struct {
	Credential Credential `json:"credential"`
	Signature  string     `json:"signature"`
	AnchorRef  string     `json:"anchor_ref"`
}
