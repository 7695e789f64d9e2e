package proto

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/linker"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Check compiles proto sources (file name to content) with the standard
// imports available.
func Check(ctx context.Context, files map[string]string) (linker.Files, error) {
	resolver := protocompile.WithStandardImports(&protocompile.SourceResolver{
		Accessor: protocompile.SourceAccessorFromMap(files),
	})
	compiler := protocompile.Compiler{
		Resolver:       resolver,
		SourceInfoMode: protocompile.SourceInfoStandard,
	}
	names := slices.Sorted(maps.Keys(files))
	fds, err := compiler.Compile(ctx, names...)
	if err != nil {
		return nil, fmt.Errorf("compile proto files: %w", err)
	}
	return fds, nil
}

// FindMethod looks up a method by service and method name in compiled
// files.
func FindMethod(files linker.Files, service, method string) (protoreflect.MethodDescriptor, error) {
	for _, file := range files {
		services := file.Services()
		for i := 0; i < services.Len(); i++ {
			svc := services.Get(i)
			if string(svc.Name()) != service {
				continue
			}
			if m := svc.Methods().ByName(protoreflect.Name(method)); m != nil {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("method %s.%s not found in compiled proto files", service, method)
}

// Verify checks that every service and method of the model is present in
// the compiled files, and that every message kept its field count.
func (e *Emitter) Verify(files linker.Files) error {
	for _, svc := range e.model.Services {
		for _, m := range svc.Methods {
			if _, err := FindMethod(files, e.services[svc.Name], m.Name); err != nil {
				return err
			}
		}
	}
	for _, md := range e.model.Messages() {
		name := protoreflect.FullName(e.opts.Package + "." + md.Name)
		desc, err := files.AsResolver().FindDescriptorByName(name)
		if err != nil {
			return fmt.Errorf("message %s not found in compiled proto files: %w", name, err)
		}
		msg, ok := desc.(protoreflect.MessageDescriptor)
		if !ok {
			return fmt.Errorf("%s is not a message", name)
		}
		if got := msg.Fields().Len(); got != len(md.Fields) {
			return fmt.Errorf("message %s has %d fields, want %d", name, got, len(md.Fields))
		}
	}
	return nil
}
