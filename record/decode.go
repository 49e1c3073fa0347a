package record

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(apd.Decimal{})
)

// Decode copies the record into the struct pointed to by dest.
//
// Fields map to columns through the `column` tag, then the `db` tag, then
// the field name, matched case-insensitively. A field mapped to a lazy
// virtual column resolves it. Fields without a matching column are left
// untouched; a field tagged "-" is skipped.
func (r *Record) Decode(ctx context.Context, dest interface{}) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.IsNil() {
		return fmt.Errorf("dest must be a pointer to struct")
	}
	destValue = destValue.Elem()
	if destValue.Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	destType := destValue.Type()
	for i := 0; i < destType.NumField(); i++ {
		field := destType.Field(i)
		fieldValue := destValue.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		name := columnName(field)
		if name == "" {
			continue
		}

		var value interface{}
		if col, ok := r.table.Column(name); ok {
			v, err := r.Get(ctx, col.Name)
			if err != nil {
				return fmt.Errorf("failed to read column %s: %w", col.Name, err)
			}
			if _, loaded := r.Value(col.Name); !loaded {
				continue
			}
			value = v
		} else {
			v, ok := r.Value(name)
			if !ok {
				continue
			}
			value = v
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

func columnName(field reflect.StructField) string {
	for _, key := range []string{"column", "db"} {
		if tag := field.Tag.Get(key); tag != "" {
			if tag == "-" {
				return ""
			}
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				return name
			}
		}
	}
	return field.Name
}

// setFieldValue assigns value to field with conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.Kind() == reflect.Ptr {
		ptr := reflect.New(field.Type().Elem())
		if err := setFieldValue(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	valueReflect := reflect.ValueOf(value)
	fieldType := field.Type()
	if valueReflect.Type().AssignableTo(fieldType) {
		field.Set(valueReflect)
		return nil
	}

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(AsString(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := AsInt64(value)
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := AsInt64(value)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("cannot assign %d to unsigned field", n)
		}
		field.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		f, err := AsFloat64(value)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := AsBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Struct:
		switch fieldType {
		case timeType:
			t, err := AsTime(value)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(t))
		case decimalType:
			d, err := AsDecimal(value)
			if err != nil {
				return err
			}
			field.Addr().Interface().(*apd.Decimal).Set(d)
		default:
			return fmt.Errorf("unsupported struct type: %s", fieldType)
		}

	default:
		return fmt.Errorf("unsupported field type: %s", fieldType)
	}
	return nil
}
