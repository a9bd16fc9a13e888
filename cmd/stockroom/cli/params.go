// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagBinder is implemented by parameter types that register their
// own flags instead of using struct tags.
type FlagBinder interface {
	AddFlags(flagSet *pflag.FlagSet)
}

// BindFlags registers a flag for every tagged field of params, which
// must be a pointer to a struct.
//
// Tags: flag:"name" or flag:"name,n" gives the long name and optional
// shorthand; desc:"..." the help text; default:"..." the default,
// parsed as the field's type. Supported field types are string, bool,
// int, int64, time.Duration and []string. Embedded structs are bound
// recursively unless they implement FlagBinder.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(value.Elem(), flagSet)
}

func bindStruct(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()
	for index := range structType.NumField() {
		field := structType.Field(index)
		fieldValue := structValue.Field(index)

		if field.Type.Kind() == reflect.Struct && field.IsExported() {
			if binder, ok := fieldValue.Addr().Interface().(FlagBinder); ok {
				binder.AddFlags(flagSet)
				continue
			}
			if field.Anonymous {
				if err := bindStruct(fieldValue, flagSet); err != nil {
					return fmt.Errorf("%s: %w", field.Name, err)
				}
				continue
			}
		}

		tag := field.Tag.Get("flag")
		if tag == "" {
			continue
		}
		name, shorthand, _ := strings.Cut(tag, ",")
		if err := bindField(fieldValue.Addr().Interface(), flagSet, name, shorthand,
			field.Tag.Get("desc"), field.Tag.Get("default")); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func bindField(target any, flagSet *pflag.FlagSet, name, shorthand, description, fallback string) error {
	switch pointer := target.(type) {
	case *string:
		flagSet.StringVarP(pointer, name, shorthand, fallback, description)
	case *bool:
		value, err := parseDefault(fallback, strconv.ParseBool)
		if err != nil {
			return fmt.Errorf("default for --%s: %w", name, err)
		}
		flagSet.BoolVarP(pointer, name, shorthand, value, description)
	case *int:
		value, err := parseDefault(fallback, strconv.Atoi)
		if err != nil {
			return fmt.Errorf("default for --%s: %w", name, err)
		}
		flagSet.IntVarP(pointer, name, shorthand, value, description)
	case *int64:
		value, err := parseDefault(fallback, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
		if err != nil {
			return fmt.Errorf("default for --%s: %w", name, err)
		}
		flagSet.Int64VarP(pointer, name, shorthand, value, description)
	case *time.Duration:
		value, err := parseDefault(fallback, time.ParseDuration)
		if err != nil {
			return fmt.Errorf("default for --%s: %w", name, err)
		}
		flagSet.DurationVarP(pointer, name, shorthand, value, description)
	case *[]string:
		var value []string
		if fallback != "" {
			value = strings.Split(fallback, ",")
		}
		flagSet.StringSliceVarP(pointer, name, shorthand, value, description)
	default:
		return fmt.Errorf("unsupported type %T for --%s", target, name)
	}
	return nil
}

func parseDefault[T any](text string, parse func(string) (T, error)) (T, error) {
	var zero T
	if text == "" {
		return zero, nil
	}
	return parse(text)
}
