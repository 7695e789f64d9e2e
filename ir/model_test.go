package ir

import (
	"strings"
	"testing"
)

func validModel() *Model {
	m := &Model{Package: PackageInfo{Name: "storage", Version: "v1", GoName: "storage"}}
	m.AddType(&MessageDescriptor{
		Name:     "Bucket",
		SchemaID: "Bucket",
		Fields: []FieldDescriptor{
			{Name: "Id", JSONName: "id", Type: String(), Number: 1},
			{Name: "Metageneration", JSONName: "metageneration", Type: Int(64), StringEncoded: true, Number: 2},
			{Name: "Owner", JSONName: "owner", Type: Ref("Owner", "Owner"), Number: 3},
		},
	})
	m.AddType(&MessageDescriptor{Name: "Owner", SchemaID: "Owner"})
	m.AddType(&AliasDescriptor{Name: "Principal", SchemaID: "Principal", Underlying: Ref("Owner", "Owner")})
	m.AddType(&MessageDescriptor{Name: "BucketsGetRequest", SchemaID: "storage.buckets.getRequest"})
	m.AddCommand(CommandDescriptor{
		Name:     "buckets-get",
		MethodID: "storage.buckets.get",
		Flags:    []FlagDescriptor{{Name: "bucket", Raw: "bucket", Source: FlagPath, Required: true}},
	})
	m.AddService(ServiceDescriptor{
		Name:         "Buckets",
		ResourcePath: "buckets",
		Methods: []MethodDescriptor{{
			Name:         "Get",
			RawName:      "get",
			ID:           "storage.buckets.get",
			HTTPMethod:   "GET",
			RelativePath: "b/{bucket}",
			Request:      Ref("BucketsGetRequest", "storage.buckets.getRequest"),
			Response:     Ref("Bucket", "Bucket"),
			Command:      "buckets-get",
		}},
	})
	return m
}

func TestModel_Find(t *testing.T) {
	m := validModel()

	if got := m.FindType("Bucket"); got == nil || got.Kind() != KindMessage {
		t.Errorf("FindType(Bucket) = %v", got)
	}
	if m.FindType("Nope") != nil {
		t.Error("FindType should return nil for unknown type")
	}
	if svc := m.FindService("buckets"); svc == nil || svc.Method("get") == nil {
		t.Error("FindService(buckets).Method(get) should exist")
	}
	if cmd := m.FindCommand("buckets-get"); cmd == nil || len(cmd.RequiredFlags()) != 1 {
		t.Error("FindCommand(buckets-get) should have one required flag")
	}
	if got := len(m.Messages()); got != 3 {
		t.Errorf("len(Messages()) = %d, want 3", got)
	}
}

func TestModel_Validate_OK(t *testing.T) {
	if errs := validModel().Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestModel_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(m *Model)
		wantCode string
	}{
		{
			name: "duplicate type",
			mutate: func(m *Model) {
				m.AddType(&MessageDescriptor{Name: "Bucket", SchemaID: "bucket"})
			},
			wantCode: "duplicate_type",
		},
		{
			name: "missing field reference",
			mutate: func(m *Model) {
				m.AddType(&MessageDescriptor{
					Name:   "Widget",
					Fields: []FieldDescriptor{{Name: "Part", JSONName: "part", Type: Slice(Ref("Missing", "Missing"))}},
				})
			},
			wantCode: "missing_type_reference",
		},
		{
			name: "string encoded map",
			mutate: func(m *Model) {
				m.AddType(&MessageDescriptor{
					Name:   "Labels",
					Fields: []FieldDescriptor{{Name: "Values", Type: StringMap(String()), StringEncoded: true}},
				})
			},
			wantCode: "invalid_string_encoded",
		},
		{
			name: "missing extends",
			mutate: func(m *Model) {
				m.AddType(&MessageDescriptor{Name: "Child", Extends: []string{"Ghost"}})
			},
			wantCode: "missing_extends_reference",
		},
		{
			name: "circular extends",
			mutate: func(m *Model) {
				m.AddType(&MessageDescriptor{Name: "A", Extends: []string{"B"}})
				m.AddType(&MessageDescriptor{Name: "B", Extends: []string{"A"}})
			},
			wantCode: "circular_inheritance",
		},
		{
			name: "missing command",
			mutate: func(m *Model) {
				m.Services[0].Methods[0].Command = "nope"
			},
			wantCode: "missing_command",
		},
		{
			name: "absolute relative path",
			mutate: func(m *Model) {
				m.Services[0].Methods[0].RelativePath = "/b/{bucket}"
			},
			wantCode: "invalid_path",
		},
		{
			name: "duplicate method",
			mutate: func(m *Model) {
				m.Services[0].Methods = append(m.Services[0].Methods, m.Services[0].Methods[0])
			},
			wantCode: "duplicate_method",
		},
		{
			name: "duplicate flag",
			mutate: func(m *Model) {
				m.Commands[0].Flags = append(m.Commands[0].Flags, m.Commands[0].Flags[0])
			},
			wantCode: "duplicate_flag",
		},
		{
			name: "inline named type",
			mutate: func(m *Model) {
				m.Services[0].Methods[0].Response = &MessageDescriptor{Name: "Inline"}
			},
			wantCode: "inline_named_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModel()
			tt.mutate(m)
			errs := m.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate() should fail")
			}
			found := false
			for _, err := range errs {
				if ve, ok := err.(*ValidationError); ok && ve.Code == tt.wantCode {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want code %q", errs, tt.wantCode)
			}
		})
	}
}

func TestModel_Validate_CyclePath(t *testing.T) {
	m := &Model{}
	m.AddType(&MessageDescriptor{Name: "A", Extends: []string{"B"}})
	m.AddType(&MessageDescriptor{Name: "B", Extends: []string{"A"}})

	errs := m.Validate()
	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want exactly one error", errs)
	}
	if !strings.Contains(errs[0].Error(), "A -> B -> A") {
		t.Errorf("error = %q, want cycle path", errs[0].Error())
	}
}
