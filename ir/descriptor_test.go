package ir

import "testing"

func TestDescriptorKind_String(t *testing.T) {
	tests := []struct {
		kind DescriptorKind
		want string
	}{
		{KindMessage, "Message"},
		{KindAlias, "Alias"},
		{KindEnum, "Enum"},
		{KindPrimitive, "Primitive"},
		{KindArray, "Array"},
		{KindMap, "Map"},
		{KindReference, "Reference"},
		{DescriptorKind(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("DescriptorKind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExprBase_ZeroValues(t *testing.T) {
	var base exprBase

	if base.TypeName() != "" {
		t.Error("exprBase.TypeName() should return zero value")
	}
	if !base.Doc().IsZero() {
		t.Error("exprBase.Doc() should return zero value")
	}
	if base.Origin() != "" {
		t.Error("exprBase.Origin() should return zero value")
	}
}

func TestIsNamed(t *testing.T) {
	tests := []struct {
		name string
		td   TypeDescriptor
		want bool
	}{
		{"nil", nil, false},
		{"message", &MessageDescriptor{Name: "Bucket"}, true},
		{"alias", &AliasDescriptor{Name: "Principal", Underlying: Ref("Owner", "Owner")}, true},
		{"enum", &EnumDescriptor{Name: "Color"}, true},
		{"primitive", String(), false},
		{"array", Slice(String()), false},
		{"reference", Ref("Bucket", "Bucket"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNamed(tt.td); got != tt.want {
				t.Errorf("IsNamed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefTo(t *testing.T) {
	md := &MessageDescriptor{Name: "Bucket", SchemaID: "Bucket"}
	ref := RefTo(md)
	if ref.Target != "Bucket" || ref.SchemaID != "Bucket" {
		t.Errorf("RefTo() = %+v", ref)
	}
}

func TestDoc(t *testing.T) {
	tests := []struct {
		input       string
		wantSummary string
	}{
		{"", ""},
		{"A bucket.", "A bucket."},
		{"A bucket. Holds objects.", "A bucket."},
		{"First line\ncontinues.\n\nSecond paragraph.", "First line continues."},
	}
	for _, tt := range tests {
		d := Doc(tt.input)
		if d.Summary != tt.wantSummary {
			t.Errorf("Doc(%q).Summary = %q, want %q", tt.input, d.Summary, tt.wantSummary)
		}
	}
	if !Doc("   ").IsZero() {
		t.Error("Doc of whitespace should be zero")
	}
}

func TestPrimitiveKind_String(t *testing.T) {
	tests := []struct {
		kind PrimitiveKind
		want string
	}{
		{PrimitiveBool, "Bool"},
		{PrimitiveInt, "Int"},
		{PrimitiveUint, "Uint"},
		{PrimitiveFloat, "Float"},
		{PrimitiveString, "String"},
		{PrimitiveBytes, "Bytes"},
		{PrimitiveTime, "Time"},
		{PrimitiveDate, "Date"},
		{PrimitiveDuration, "Duration"},
		{PrimitiveAny, "Any"},
		{PrimitiveKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("PrimitiveKind.String() = %q, want %q", got, tt.want)
		}
	}
	if !Int(64).IsNumeric() || String().IsNumeric() {
		t.Error("IsNumeric() mismatch")
	}
}
