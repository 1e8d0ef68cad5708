package mem

import (
	"fmt"
	"reflect"
)

// Field describes one field of a fixed-layout struct.
type Field struct {
	Name   string
	Offset uintptr
	Size   uintptr
	Type   string
}

// Layout describes the in-memory shape of a type.
type Layout struct {
	Name   string
	Size   uintptr
	Align  uintptr
	Fields []Field
}

// Describe reports the size, alignment and top-level fields of T.
// Non-struct types have no fields.
func Describe[T any]() Layout {
	typ := reflect.TypeFor[T]()
	l := Layout{
		Name:  typ.String(),
		Size:  typ.Size(),
		Align: uintptr(typ.Align()),
	}
	if typ.Kind() != reflect.Struct {
		return l
	}
	l.Fields = make([]Field, 0, typ.NumField())
	for i := range typ.NumField() {
		f := typ.Field(i)
		l.Fields = append(l.Fields, Field{
			Name:   f.Name,
			Offset: f.Offset,
			Size:   f.Type.Size(),
			Type:   f.Type.String(),
		})
	}
	return l
}

// CheckLayout returns ErrNotFixedLayout if T contains anything other than
// booleans, numbers, and arrays or structs of those.
func CheckLayout[T any]() error {
	return checkType(reflect.TypeFor[T](), reflect.TypeFor[T]().String())
}

func checkType(typ reflect.Type, path string) error {
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return checkType(typ.Elem(), path+"[]")
	case reflect.Struct:
		for i := range typ.NumField() {
			f := typ.Field(i)
			if err := checkType(f.Type, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s is %s", ErrNotFixedLayout, path, typ.Kind())
	}
}
