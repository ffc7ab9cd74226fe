package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/types"
)

// CredentialService signs plan summaries into tamper-evident credentials and
// verifies them later without contacting the issuer. The signature is a pure
// function of the credential fields and a shared secret; verification
// recomputes it and compares in constant time.
type CredentialService interface {
	BuildSummary(path []types.PlanStep) string
	Issue(actorID, goal string, path []types.PlanStep) types.IssuedCredential
	Verify(cred types.Credential, signature string) (bool, string)
}

type credentialService struct {
	log    *logger.Logger
	secret []byte
	now    func() time.Time
}

// NewCredentialService builds an issuer. An empty secret never fails
// construction: issuance degrades to unsigned credentials so callers can
// still present partial information. There is no built-in default secret —
// without configuration nothing this service emits will ever verify.
func NewCredentialService(log *logger.Logger, secret string, now func() time.Time) CredentialService {
	if now == nil {
		now = time.Now
	}
	var key []byte
	if strings.TrimSpace(secret) != "" {
		key = []byte(secret)
	} else {
		log.Warn("No credential signing secret configured; issuance will be unsigned")
	}
	return &credentialService{
		log:    log.With("service", "CredentialService"),
		secret: key,
		now:    now,
	}
}

// BuildSummary joins "{kind}: {title}" per step with "; ". The summary, not
// the whole plan, is the signed payload basis, so later changes to
// incidental plan metadata cannot invalidate issued credentials.
func (s *credentialService) BuildSummary(path []types.PlanStep) string {
	parts := make([]string, 0, len(path))
	for _, step := range path {
		parts = append(parts, string(step.Kind)+": "+step.Title)
	}
	return strings.Join(parts, "; ")
}

func (s *credentialService) Issue(actorID, goal string, path []types.PlanStep) types.IssuedCredential {
	cred := types.Credential{
		ID:          uuid.New(),
		Actor:       actorID,
		Goal:        goal,
		PathSummary: s.BuildSummary(path),
		IssuedAt:    s.now().UTC().Truncate(time.Second),
	}
	if len(s.secret) == 0 {
		s.log.Warn("Issuing unsigned credential", "credential_id", cred.ID, "actor", actorID)
		return types.IssuedCredential{
			Credential: cred,
			Signature:  types.UnsignedSentinel,
			AnchorRef:  "anchor:invalid",
		}
	}
	return types.IssuedCredential{
		Credential: cred,
		Signature:  s.sign(cred),
		AnchorRef:  anchorRef(cred),
	}
}

func (s *credentialService) Verify(cred types.Credential, signature string) (bool, string) {
	if signature == types.UnsignedSentinel {
		return false, "credential was issued unsigned (degraded mode)"
	}
	if len(s.secret) == 0 {
		return false, "verifier has no signing secret configured"
	}
	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, "signature is not valid base64"
	}
	expected := s.mac(cred)
	if !hmac.Equal(provided, expected) {
		return false, "signature mismatch"
	}
	return true, "signature valid"
}

// canonicalPayload is the exact byte sequence signed at issuance. Field
// order and the RFC3339 UTC timestamp rendering are part of the contract.
// Each field is rendered with %q so a delimiter inside one field can never
// shift a field boundary: two distinct credentials always serialize to
// distinct payloads.
func canonicalPayload(cred types.Credential) []byte {
	return []byte(fmt.Sprintf("%q|%q|%q|%q|%q",
		cred.ID.String(),
		cred.Actor,
		cred.Goal,
		cred.PathSummary,
		cred.IssuedAt.UTC().Format(time.RFC3339),
	))
}

func (s *credentialService) mac(cred types.Credential) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(canonicalPayload(cred))
	return h.Sum(nil)
}

func (s *credentialService) sign(cred types.Credential) string {
	return base64.StdEncoding.EncodeToString(s.mac(cred))
}

// anchorRef is an opaque placeholder for an external ledger anchor. It is
// derived from the credential id and timestamp but never checked by Verify.
func anchorRef(cred types.Credential) string {
	sum := sha256.Sum256([]byte(cred.ID.String() + "|" + cred.IssuedAt.UTC().Format(time.RFC3339)))
	return "anchor:" + hex.EncodeToString(sum[:])
}
