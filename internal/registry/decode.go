package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeArgs populates target, a pointer to a struct with `cty` tags, from an
// object value. The value is first converted to the struct's implied type, so
// HCL tuples fill slices, objects fill maps, and numbers written as strings
// are accepted. Fields of pointer, slice or map kind are optional; every
// other field is required. Unknown attributes are rejected.
func DecodeArgs(args cty.Value, target any) error {
	args = normalizeArgs(args)
	if !args.Type().IsObjectType() {
		return fmt.Errorf("arguments must be an object, got %s", args.Type().FriendlyName())
	}
	if !args.IsWhollyKnown() {
		return errors.New("arguments contain unknown values")
	}

	implied, err := gocty.ImpliedType(target)
	if err != nil {
		return fmt.Errorf("input type: %w", err)
	}
	if !implied.IsObjectType() {
		return fmt.Errorf("input type must be a struct, got %s", implied.FriendlyName())
	}

	attrTypes := implied.AttributeTypes()
	var unknown []string
	for name := range args.Type().AttributeTypes() {
		if _, ok := attrTypes[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unsupported argument %q", unknown[0])
	}

	want := cty.ObjectWithOptionalAttrs(attrTypes, optionalFields(reflect.TypeOf(target)))
	converted, err := convert.Convert(args, want)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return fmt.Errorf("decoding arguments: %w", err)
	}
	return nil
}

// optionalFields returns the cty attribute names of fields that can hold nil.
func optionalFields(t reflect.Type) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("cty")
		if name == "" || name == "-" {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			out = append(out, name)
		}
	}
	return out
}

func expectNoArgs(args cty.Value) error {
	args = normalizeArgs(args)
	if !args.Type().IsObjectType() {
		return fmt.Errorf("arguments must be an object, got %s", args.Type().FriendlyName())
	}
	attrs := args.Type().AttributeTypes()
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("runner takes no arguments, got %s", strings.Join(names, ", "))
}

func normalizeArgs(args cty.Value) cty.Value {
	if args.IsNull() {
		return cty.EmptyObjectVal
	}
	return args
}
