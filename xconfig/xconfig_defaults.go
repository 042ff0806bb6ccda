package xconfig

import (
	"fmt"
	"reflect"
)

type defaulter interface {
	Default()
}

func applyDefaultTagsRecursive(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := applyDefaultTagsRecursive(field); err != nil {
				return err
			}
			continue
		}

		tag, ok := fieldType.Tag.Lookup("default")
		if !ok || !field.IsZero() {
			continue
		}

		if err := setValueFromString(field, tag); err != nil {
			return fmt.Errorf("field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

// callDefaultMethodsRecursive calls Default() on nested structs first, then
// on v itself, so an outer Default() may override inner ones.
func callDefaultMethodsRecursive(v reflect.Value) {
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.CanSet() && field.Kind() == reflect.Struct {
			callDefaultMethodsRecursive(field)
		}
	}

	if v.CanAddr() {
		if d, ok := v.Addr().Interface().(defaulter); ok {
			d.Default()
		}
	}
}
