package discogen

import (
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   map[string]string
		want     string
		wantErr  bool
	}{
		{"no variables", "ping", nil, "ping", false},
		{"simple", "items/{id}", map[string]string{"id": "42"}, "items/42", false},
		{"escaped", "b/{bucket}", map[string]string{"bucket": "a b/c"}, "b/a%20b%2Fc", false},
		{"reserved", "b/{bucket}/o/{+object}", map[string]string{"bucket": "b1", "object": "dir/file name.txt"}, "b/b1/o/dir/file%20name.txt", false},
		{"absolute upload path", "/upload/storage/v1/b/{bucket}/o", map[string]string{"bucket": "b1"}, "/upload/storage/v1/b/b1/o", false},
		{"adjacent", "{a}{b}", map[string]string{"a": "x", "b": "y"}, "xy", false},
		{"missing", "items/{id}", map[string]string{}, "", true},
		{"empty value", "items/{id}", map[string]string{"id": ""}, "", true},
		{"unterminated", "items/{id", map[string]string{"id": "1"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.template, tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if CodeOf(err) != CodeInvalidArgument {
					t.Errorf("expected %s, got %s", CodeInvalidArgument, CodeOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
