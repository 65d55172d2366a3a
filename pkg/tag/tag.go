// Package tag fills zero-valued struct fields from `default:"..."` tags.
package tag

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const tagName = "default"

// maxDepth bounds struct recursion to avoid cycles through pointers.
const maxDepth = 16

// ApplyDefaults walks the struct pointed to by target and assigns each
// zero-valued field the value declared in its `default` tag. Nested structs
// and pointers to structs are filled recursively.
//
//	type Config struct {
//	    Host string `default:"localhost"`
//	    Port int    `default:"8080"`
//	}
func ApplyDefaults(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrTargetMustBePointer
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrUnsupportedType
	}
	return fillStruct(elem, "", 0)
}

func fillStruct(v reflect.Value, path string, depth int) error {
	if depth >= maxDepth {
		return ErrMaxDepthExceeded
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}

		if err := fillField(fv, field.Tag.Get(tagName), fieldPath, depth); err != nil {
			return err
		}
	}
	return nil
}

func fillField(fv reflect.Value, tagValue, path string, depth int) error {
	switch fv.Kind() {
	case reflect.Struct:
		return fillStruct(fv, path, depth+1)

	case reflect.Pointer:
		if fv.Type().Elem().Kind() != reflect.Struct {
			break
		}
		if fv.IsNil() {
			// 仅在字段声明了默认值时才分配嵌套结构
			if tagValue == "" {
				return nil
			}
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return fillStruct(fv.Elem(), path, depth+1)
	}

	if tagValue == "" || !fv.IsZero() {
		return nil
	}
	if err := setValue(fv, tagValue); err != nil {
		return newFieldError(path, fv.Kind(), tagValue, err)
	}
	return nil
}

// setValue 将字符串解析为字段类型并赋值
func setValue(fv reflect.Value, s string) error {
	if fv.CanAddr() {
		if u, ok := fv.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(s))
		}
	}

	s = strings.TrimSpace(s)

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if fv.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			fv.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(s, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)

	case reflect.Slice:
		return setSlice(fv, s)

	default:
		return ErrUnsupportedType
	}
	return nil
}

// setSlice 按逗号分隔解析切片元素
func setSlice(fv reflect.Value, s string) error {
	if fv.Type() == reflect.TypeFor[[]byte]() {
		fv.SetBytes([]byte(s))
		return nil
	}

	parts := strings.Split(s, ",")
	slice := reflect.MakeSlice(fv.Type(), len(parts), len(parts))
	for i, part := range parts {
		if err := setValue(slice.Index(i), strings.TrimSpace(part)); err != nil {
			return err
		}
	}
	fv.Set(slice)
	return nil
}
