package discogen

import (
	"bytes"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]any{"name": "b1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"name\": \"b1\"\n}\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestUnmarshalFlag(t *testing.T) {
	var labels map[string]string
	if err := UnmarshalFlag("labels", `{"env":"prod"}`, &labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if labels["env"] != "prod" {
		t.Errorf("expected decoded labels, got %v", labels)
	}

	kept := map[string]string{"a": "b"}
	if err := UnmarshalFlag("labels", "", &kept); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kept["a"] != "b" {
		t.Error("expected empty flag to leave the destination unchanged")
	}

	err := UnmarshalFlag("labels", "{not json", &labels)
	if CodeOf(err) != CodeInvalidArgument {
		t.Errorf("expected %s, got %v", CodeInvalidArgument, err)
	}
}
