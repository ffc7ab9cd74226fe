package services

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/learnpath-backend/internal/types"
)

func planFixtureSteps() []types.PlanStep {
	return []types.PlanStep{
		{Kind: types.StepKindRead, Title: "LLM safety overview", URL: "https://example.com/a1", Minutes: 15},
		{Kind: types.StepKindWatch, Title: "Watching models fail", URL: "https://example.com/v1", Minutes: 20},
		{Kind: types.StepKindPractice, Title: "Red-teaming exercise", URL: "https://example.com/p1", Minutes: 30},
	}
}

func TestBuildSummary(t *testing.T) {
	svc := NewCredentialService(testLogger(t), "secret", testClock)
	got := svc.BuildSummary(planFixtureSteps())
	want := "Read: LLM safety overview; Watch: Watching models fail; Practice: Red-teaming exercise"
	if got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
	if svc.BuildSummary(nil) != "" {
		t.Fatal("empty path must summarize to empty string")
	}
}

func TestIssueThenVerify(t *testing.T) {
	svc := NewCredentialService(testLogger(t), "test-signing-secret", testClock)
	issued := svc.Issue("actor-42", "Understand LLM safety basics", planFixtureSteps())

	if issued.Signature == "" || issued.Signature == types.UnsignedSentinel {
		t.Fatalf("signature = %q, want a real signature", issued.Signature)
	}
	if !strings.HasPrefix(issued.AnchorRef, "anchor:") || issued.AnchorRef == "anchor:invalid" {
		t.Fatalf("anchor = %q", issued.AnchorRef)
	}
	if !issued.Credential.IssuedAt.Equal(fixedNow) {
		t.Fatalf("issued_at = %v, want injected clock %v", issued.Credential.IssuedAt, fixedNow)
	}

	valid, reason := svc.Verify(issued.Credential, issued.Signature)
	if !valid {
		t.Fatalf("fresh credential failed verification: %s", reason)
	}
}

func TestVerifyRejectsMutatedCredential(t *testing.T) {
	svc := NewCredentialService(testLogger(t), "test-signing-secret", testClock)
	issued := svc.Issue("actor-42", "Understand LLM safety basics", planFixtureSteps())

	mutations := []struct {
		name   string
		mutate func(c types.Credential) types.Credential
	}{
		{
			name: "goal_appended",
			mutate: func(c types.Credential) types.Credential {
				c.Goal += "!"
				return c
			},
		},
		{
			name: "actor_changed",
			mutate: func(c types.Credential) types.Credential {
				c.Actor = "someone-else"
				return c
			},
		},
		{
			name: "summary_changed",
			mutate: func(c types.Credential) types.Credential {
				c.PathSummary = strings.Replace(c.PathSummary, "Read", "Skim", 1)
				return c
			},
		},
		{
			name: "timestamp_shifted",
			mutate: func(c types.Credential) types.Credential {
				c.IssuedAt = c.IssuedAt.Add(time.Second)
				return c
			},
		},
	}
	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			valid, _ := svc.Verify(tc.mutate(issued.Credential), issued.Signature)
			if valid {
				t.Fatal("mutated credential verified as valid")
			}
		})
	}
}

func TestVerifyRejectsShiftedFieldBoundaries(t *testing.T) {
	svc := NewCredentialService(testLogger(t), "test-signing-secret", testClock)

	// Fields containing the payload delimiter must not allow content to move
	// across a field boundary while keeping the signature.
	issued := svc.Issue("alice|admin", "learn go", planFixtureSteps())

	shifted := issued.Credential
	shifted.Actor = "alice"
	shifted.Goal = "admin|learn go"
	if valid, _ := svc.Verify(shifted, issued.Signature); valid {
		t.Fatal("boundary-shifted credential verified as valid")
	}

	// Same for summary/goal and for quote characters inside fields.
	issued = svc.Issue("actor-42", `goal with "quotes" and | pipes`, planFixtureSteps())
	valid, reason := svc.Verify(issued.Credential, issued.Signature)
	if !valid {
		t.Fatalf("credential with delimiter characters failed verification: %s", reason)
	}
	shifted = issued.Credential
	shifted.Goal = `goal with "quotes" and `
	shifted.PathSummary = "| pipes|" + shifted.PathSummary
	if valid, _ := svc.Verify(shifted, issued.Signature); valid {
		t.Fatal("goal/summary boundary shift verified as valid")
	}
}

func TestVerifyRejectsFlippedSignature(t *testing.T) {
	svc := NewCredentialService(testLogger(t), "test-signing-secret", testClock)
	issued := svc.Issue("actor-42", "Understand LLM safety basics", planFixtureSteps())

	sig := []byte(issued.Signature)
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	valid, _ := svc.Verify(issued.Credential, string(sig))
	if valid {
		t.Fatal("tampered signature verified as valid")
	}
}

func TestDegradedIssuanceNeverVerifies(t *testing.T) {
	unsigned := NewCredentialService(testLogger(t), "", testClock)
	issued := unsigned.Issue("actor-42", "Understand LLM safety basics", planFixtureSteps())

	if issued.Signature != types.UnsignedSentinel {
		t.Fatalf("signature = %q, want sentinel", issued.Signature)
	}
	if issued.AnchorRef != "anchor:invalid" {
		t.Fatalf("anchor = %q, want anchor:invalid", issued.AnchorRef)
	}
	// Credential body is still usable for display.
	if issued.Credential.PathSummary == "" || issued.Credential.ID.String() == "" {
		t.Fatal("degraded issuance must still return a credential body")
	}

	valid, reason := unsigned.Verify(issued.Credential, issued.Signature)
	if valid {
		t.Fatal("unsigned credential verified as valid")
	}
	if !strings.Contains(reason, "degraded") && !strings.Contains(reason, "unsigned") {
		t.Fatalf("reason = %q, want an explicit degraded-mode reason", reason)
	}

	// Even a properly configured verifier must reject the sentinel.
	signed := NewCredentialService(testLogger(t), "test-signing-secret", testClock)
	valid, _ = signed.Verify(issued.Credential, issued.Signature)
	if valid {
		t.Fatal("sentinel signature verified against a configured secret")
	}
}

func TestVerifyWithoutSecret(t *testing.T) {
	signed := NewCredentialService(testLogger(t), "test-signing-secret", testClock)
	issued := signed.Issue("actor-42", "goal", planFixtureSteps())

	unsigned := NewCredentialService(testLogger(t), "", testClock)
	valid, reason := unsigned.Verify(issued.Credential, issued.Signature)
	if valid {
		t.Fatal("verification without a secret must fail")
	}
	if !strings.Contains(reason, "secret") {
		t.Fatalf("reason = %q", reason)
	}
}
