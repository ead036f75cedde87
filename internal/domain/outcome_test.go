package domain

import "testing"

func TestClassify_Accepted(t *testing.T) {
	for _, status := range []int{200, 201, 202} {
		if got := Classify(status); got != OutcomeAccepted {
			t.Errorf("Classify(%d) = %v, want Accepted", status, got)
		}
	}
}

func TestClassify_Retryable(t *testing.T) {
	for _, status := range []int{408, 429, 500, 503, 511} {
		if got := Classify(status); got != OutcomeRetryable {
			t.Errorf("Classify(%d) = %v, want Retryable", status, got)
		}
	}
}

func TestClassify_Rejected(t *testing.T) {
	// Everything outside the accepted and retryable sets is terminal,
	// including the remainder of the 2xx range.
	for _, status := range []int{0, 100, 203, 204, 301, 400, 401, 403, 404, 409, 410, 501, 502, 504, 599} {
		if got := Classify(status); got != OutcomeRejected {
			t.Errorf("Classify(%d) = %v, want Rejected", status, got)
		}
	}
}

func TestClassify_Exhaustive(t *testing.T) {
	// Every status code maps to exactly one outcome and the sets are
	// disjoint by construction.
	for status := 0; status < 1000; status++ {
		o := Classify(status)
		if o != OutcomeAccepted && o != OutcomeRetryable && o != OutcomeRejected {
			t.Fatalf("Classify(%d) = %v, not a known outcome", status, o)
		}
	}
}

func TestOutcome_Deletes(t *testing.T) {
	if !OutcomeAccepted.Deletes() {
		t.Error("Accepted should delete the record")
	}
	if OutcomeRetryable.Deletes() {
		t.Error("Retryable should release, not delete")
	}
	if !OutcomeRejected.Deletes() {
		t.Error("Rejected should delete the record")
	}
}

func TestOutcome_String(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeAccepted:  "Accepted",
		OutcomeRetryable: "Retryable",
		OutcomeRejected:  "Rejected",
		Outcome(42):      "Outcome(42)",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
