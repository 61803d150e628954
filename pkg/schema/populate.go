// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argbind/pkg/argbind"
)

// ValueError is returned when a bound value cannot be stored in its field.
type ValueError struct {
	Field string // struct field name
	Name  string // option or argument name
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Name, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// Populate copies the values bound in in into flags and args, which must be
// pointers to the structs given to FromStruct (either may be nil). Options
// that resolved to no value leave their field untouched.
func Populate(in *argbind.Input, flags, args any) error {
	if flags != nil {
		v, err := structValue(flags)
		if err != nil {
			return err
		}
		fields, err := flagFields(flags)
		if err != nil {
			return err
		}
		for _, f := range fields {
			val, err := in.Option(f.name)
			if err != nil {
				return err
			}
			field := v.Field(f.index)
			if err := setField(field, val); err != nil {
				return &ValueError{Field: v.Type().Field(f.index).Name, Name: "--" + f.name, Value: fmt.Sprint(val), Err: err}
			}
		}
	}
	if args != nil {
		v, err := structValue(args)
		if err != nil {
			return err
		}
		for _, spec := range yargs.ExtractArgSpecs(args) {
			name := ArgumentName(spec.Name)
			val, err := in.Argument(name)
			if err != nil {
				return err
			}
			if err := setField(v.FieldByName(spec.Name), val); err != nil {
				return &ValueError{Field: spec.Name, Name: name, Value: fmt.Sprint(val), Err: err}
			}
		}
	}
	return nil
}

func structValue(ptr any) (reflect.Value, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("expected a pointer to a struct, got %T", ptr)
	}
	return v.Elem(), nil
}

func setField(field reflect.Value, val any) error {
	switch val := val.(type) {
	case nil:
		return nil
	case bool:
		if field.Kind() == reflect.Ptr {
			field.Set(reflect.New(field.Type().Elem()))
			field = field.Elem()
		}
		if field.Kind() != reflect.Bool {
			return fmt.Errorf("cannot store a flag in a %s", field.Type())
		}
		field.SetBool(val)
		return nil
	case []string:
		if field.Kind() == reflect.Ptr {
			field.Set(reflect.New(field.Type().Elem()))
			field = field.Elem()
		}
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("cannot store a list in a %s", field.Type())
		}
		list := reflect.MakeSlice(field.Type(), len(val), len(val))
		for i, s := range val {
			list.Index(i).SetString(s)
		}
		field.Set(list)
		return nil
	case string:
		if field.Kind() == reflect.Ptr {
			elem := reflect.New(field.Type().Elem())
			if err := setScalar(elem.Elem(), val); err != nil {
				return err
			}
			field.Set(elem)
			return nil
		}
		return setScalar(field, val)
	}
	return fmt.Errorf("unsupported value type %T", val)
}

var durationType = reflect.TypeOf(time.Duration(0))

var errUnsupported = errors.New("unsupported field type")

func setScalar(field reflect.Value, s string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w %s", errUnsupported, field.Type())
		}
		field.Set(reflect.ValueOf([]string{s}).Convert(field.Type()))
	default:
		return fmt.Errorf("%w %s", errUnsupported, field.Type())
	}
	return nil
}
