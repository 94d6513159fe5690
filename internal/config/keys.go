package config

import (
	"reflect"
	"sort"
	"strings"
)

// FieldKind reports the value kind of section.field as used in the config
// file: "string", "int", "float", "bool" or "list".
func FieldKind(section, field string) (string, bool) {
	sf, ok := lookupField(section, field)
	if !ok {
		return "", false
	}

	switch sf.Type.Kind() {
	case reflect.Int, reflect.Int64:
		return "int", true
	case reflect.Float64:
		return "float", true
	case reflect.Bool:
		return "bool", true
	case reflect.Slice:
		return "list", true
	default:
		return "string", true
	}
}

// Keys returns every section.field key, sorted.
func Keys() []string {
	var keys []string
	root := reflect.TypeOf(Config{})
	for i := 0; i < root.NumField(); i++ {
		sec := root.Field(i)
		for j := 0; j < sec.Type.NumField(); j++ {
			keys = append(keys, tomlName(sec)+"."+tomlName(sec.Type.Field(j)))
		}
	}
	sort.Strings(keys)
	return keys
}

func lookupField(section, field string) (reflect.StructField, bool) {
	root := reflect.TypeOf(Config{})
	for i := 0; i < root.NumField(); i++ {
		sec := root.Field(i)
		if tomlName(sec) != section {
			continue
		}
		for j := 0; j < sec.Type.NumField(); j++ {
			f := sec.Type.Field(j)
			if tomlName(f) == field {
				return f, true
			}
		}
	}
	return reflect.StructField{}, false
}

func tomlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}
