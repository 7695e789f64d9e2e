package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader for --config files. Keys are flag
// names with dashes replaced by underscores, the same keys gen.Config uses:
//
//	discovery_url: storage.v1
//	outdir: ./storage
//	scope:
//	  - https://www.googleapis.com/auth/devstorage.read_only
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: %w", err)
	}
	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		raw, ok := values[strings.ReplaceAll(flag.Name, "-", "_")]
		if !ok {
			raw, ok = values[flag.Name]
		}
		if !ok {
			return nil, nil
		}
		if list, isList := raw.([]any); isList {
			items := make([]string, len(list))
			for i, item := range list {
				items[i] = fmt.Sprint(item)
			}
			return strings.Join(items, ","), nil
		}
		return raw, nil
	}
	return f, nil
}
