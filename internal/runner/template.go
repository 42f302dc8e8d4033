package runner

import (
	"errors"
	"fmt"
	"os"
	"reflect"
)

const templateTag = "template"

// ExpandTemplates expands ${VAR} references in place in every field of the
// struct pointed to by in that carries a `template` tag. Tagged fields may be
// string, *string, []string or map[string]string (values only). Nested
// structs, struct pointers and slices of structs are walked whether tagged
// or not; `template:"-"` skips a field. Every missing variable is reported.
func ExpandTemplates[T any](in *T, variables map[string]string) error {
	if in == nil {
		return nil
	}

	v := reflect.ValueOf(in).Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("ExpandTemplates expects a pointer to a struct; got *%s", v.Type())
	}

	e := expander{variables: variables}
	e.walkStruct(v)
	return e.errs
}

type expander struct {
	variables map[string]string
	errs      error
}

func (e *expander) expand(s string) string {
	out, err := Expand(s, e.variables)
	if err != nil {
		e.errs = errors.Join(e.errs, err)
		return s
	}
	return out
}

func (e *expander) walkStruct(v reflect.Value) {
	typ := v.Type()
	for i := range typ.NumField() {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag, tagged := sf.Tag.Lookup(templateTag)
		if tag == "-" {
			continue
		}
		e.walkField(v.Field(i), tagged)
	}
}

func (e *expander) walkField(field reflect.Value, tagged bool) {
	switch field.Kind() {
	case reflect.String:
		if tagged {
			field.SetString(e.expand(field.String()))
		}

	case reflect.Ptr:
		if field.IsNil() {
			return
		}
		switch field.Elem().Kind() {
		case reflect.Struct:
			e.walkStruct(field.Elem())
		case reflect.String:
			if tagged {
				// Replace the pointer so shared strings are not rewritten
				expanded := e.expand(field.Elem().String())
				field.Set(reflect.ValueOf(&expanded))
			}
		}

	case reflect.Struct:
		e.walkStruct(field)

	case reflect.Slice:
		for j := range field.Len() {
			el := field.Index(j)
			switch {
			case el.Kind() == reflect.String && tagged:
				el.SetString(e.expand(el.String()))
			case el.Kind() == reflect.Struct:
				e.walkStruct(el)
			case el.Kind() == reflect.Ptr && !el.IsNil() && el.Elem().Kind() == reflect.Struct:
				e.walkStruct(el.Elem())
			}
		}

	case reflect.Map:
		if !tagged || field.IsNil() || field.Type().Key().Kind() != reflect.String || field.Type().Elem().Kind() != reflect.String {
			return
		}
		expanded := reflect.MakeMapWithSize(field.Type(), field.Len())
		iter := field.MapRange()
		for iter.Next() {
			expanded.SetMapIndex(iter.Key(), reflect.ValueOf(e.expand(iter.Value().String())).Convert(field.Type().Elem()))
		}
		field.Set(expanded)
	}
}

// Expand replaces ${VAR} references in value using variables. It fails
// listing every referenced variable missing from variables.
func Expand(value string, variables map[string]string) (string, error) {
	var errs error

	result := os.Expand(value, func(key string) string {
		if val, ok := variables[key]; ok {
			return val
		}
		errs = errors.Join(errs, fmt.Errorf("environment variable %q is not in the allowed list", key))
		return ""
	})

	if errs != nil {
		return "", errs
	}

	return result, nil
}
