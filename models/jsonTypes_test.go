package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestFlexStringAcceptsNumbers(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 1001, "b": " INV-9 ", "c": null}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.A != "1001" || v.B != "INV-9" || v.C != "" {
		t.Fatalf("got %q %q %q", v.A, v.B, v.C)
	}
	if err := json.Unmarshal([]byte(`{"a": {"x": 1}}`), &v); err == nil {
		t.Fatal("object must be rejected")
	}
}

func TestFlexID(t *testing.T) {
	var v struct {
		ID FlexID `json:"id"`
	}
	for body, want := range map[string]FlexID{`{"id": 55}`: 55, `{"id": "55"}`: 55, `{"id": ""}`: 0, `{}`: 0} {
		v.ID = 0
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if v.ID != want {
			t.Fatalf("%s: got %d", body, v.ID)
		}
	}
	if err := json.Unmarshal([]byte(`{"id": "abc"}`), &v); err == nil {
		t.Fatal("non-numeric id must be rejected")
	}
}

func TestDomainErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewReferentialError("product not found", "product 9"))
	if ErrorKindOf(wrapped) != ErrorKindReferential {
		t.Fatal("kind must survive wrapping")
	}
	if ErrorKindOf(errors.New("plain")) != 0 {
		t.Fatal("plain errors have no kind")
	}
	v := NewValidationError("missing required fields", "invoice_no", "total")
	if v.Error() != "missing required fields: invoice_no, total" {
		t.Fatalf("message %q", v.Error())
	}
	p := NewPersistenceError("failed", errors.New("deadlock"))
	if p.Diagnostic() != "deadlock" || !errors.Is(p, p.Err) {
		t.Fatal("persistence error must expose its cause")
	}
}
