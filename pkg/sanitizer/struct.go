package sanitizer

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotStructPointer is returned when SanitizeStruct receives anything
// other than a non-nil pointer to a struct.
var ErrNotStructPointer = errors.New("sanitizer: target must be a non-nil struct pointer")

// SanitizeStruct applies the sanitizer named in each field's `sanitize`
// tag to the exported string fields of a struct, in place. Nested
// structs and struct pointers are descended into. Recognized tags:
//
//	strip     StripHTML (plain text)
//	filename  Filename (display-safe upload name)
//
// Fields without the tag are left untouched. An unrecognized tag value
// is an error, not a silent no-op.
func SanitizeStruct(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrNotStructPointer
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	return sanitizeStructValue(v)
}

func sanitizeStructValue(v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Struct:
			if err := sanitizeStructValue(fv); err != nil {
				return err
			}
			continue
		case reflect.Pointer:
			if !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
				if err := sanitizeStructValue(fv.Elem()); err != nil {
					return err
				}
			}
			continue
		}

		tag, ok := field.Tag.Lookup("sanitize")
		if !ok || fv.Kind() != reflect.String || !fv.CanSet() {
			continue
		}

		switch tag {
		case "strip":
			fv.SetString(StripHTML(fv.String()))
		case "filename":
			fv.SetString(Filename(fv.String()))
		default:
			return fmt.Errorf("sanitizer: unknown sanitize tag %q on field %s.%s", tag, t.Name(), field.Name)
		}
	}
	return nil
}
