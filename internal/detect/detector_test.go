package detect

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubProvider returns canned candidates or a canned error.
type stubProvider struct {
	name  string
	cands []Candidate
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Extract(ctx context.Context, title, body string) ([]Candidate, error) {
	s.calls++
	return s.cands, s.err
}

func (s *stubProvider) Available(ctx context.Context) bool { return s.err == nil }

func TestDetectFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "ai", cands: []Candidate{{Toponym: "Arica", Method: MethodAI}}}
	second := &stubProvider{name: "pattern", cands: []Candidate{{Toponym: "Iquique", Method: MethodPattern}}}
	d := NewChain(time.Second, first, second)

	got := d.Detect(context.Background(), "t", "b")
	if len(got) != 1 || got[0].Toponym != "Arica" {
		t.Fatalf("candidates = %+v, want the first provider's answer", got)
	}
	if second.calls != 0 {
		t.Error("lower-priority provider must not be called")
	}
}

func TestDetectFallsThroughOnError(t *testing.T) {
	broken := &stubProvider{name: "ai", err: errors.New("credential expired")}
	fallback := &stubProvider{name: "pattern", cands: []Candidate{{Toponym: "Iquique", Method: MethodPattern}}}
	d := NewChain(time.Second, broken, fallback)

	got := d.Detect(context.Background(), "t", "b")
	if len(got) != 1 || got[0].Toponym != "Iquique" {
		t.Fatalf("candidates = %+v, want the fallback's answer", got)
	}
	if broken.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", broken.calls, fallback.calls)
	}
}

// An empty result with no error is a final answer, not a failure.
func TestDetectEmptySuccessIsFinal(t *testing.T) {
	empty := &stubProvider{name: "ai"}
	fallback := &stubProvider{name: "pattern", cands: []Candidate{{Toponym: "Iquique"}}}
	d := NewChain(time.Second, empty, fallback)

	if got := d.Detect(context.Background(), "t", "b"); len(got) != 0 {
		t.Fatalf("candidates = %+v, want none", got)
	}
	if fallback.calls != 0 {
		t.Error("an empty success must stop the chain")
	}
}

func TestDetectAllProvidersFail(t *testing.T) {
	d := NewChain(time.Second,
		&stubProvider{name: "ai", err: errors.New("down")},
		&stubProvider{name: "ner", err: errors.New("down")})

	if got := d.Detect(context.Background(), "t", "b"); got != nil {
		t.Fatalf("candidates = %+v, want nil", got)
	}
}

func TestMethodTiers(t *testing.T) {
	if MethodConfidence(MethodAI) <= MethodConfidence(MethodNER) ||
		MethodConfidence(MethodNER) <= MethodConfidence(MethodPattern) {
		t.Error("confidence tiers must be strictly ordered ai > ner > pattern")
	}
	if MethodScore(MethodAI) <= MethodScore(MethodNER) ||
		MethodScore(MethodNER) <= MethodScore(MethodPattern) {
		t.Error("method scores must be strictly ordered ai > ner > pattern")
	}
}
