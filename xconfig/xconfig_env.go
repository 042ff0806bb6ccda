package xconfig

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var durationType = reflect.TypeOf(time.Duration(0))

func camelToSnake(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i < len(runes)-1 && unicode.IsLower(runes[i+1])

			if !prevUpper || nextLower {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

// getFieldTagName resolves the env name of a field from its env, yaml or
// json tag, falling back to the snake_case field name.
func getFieldTagName(fieldType reflect.StructField) string {
	for _, key := range []string{"env", "yaml", "json"} {
		tag := fieldType.Tag.Get(key)
		if tag == "-" {
			return ""
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}

	return camelToSnake(fieldType.Name)
}

func loadFromEnv(v reflect.Value, prefix string) error {
	if prefix == EnvSkipPrefix {
		return loadFromEnvRecursive(v, "")
	}
	return loadFromEnvRecursive(v, strings.ToUpper(prefix))
}

func loadFromEnvRecursive(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		tagName := getFieldTagName(fieldType)
		if tagName == "" {
			continue
		}

		envKey := strings.ToUpper(tagName)
		if prefix != "" {
			envKey = prefix + "_" + envKey
		}

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := loadFromEnvRecursive(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue, ok := os.LookupEnv(envKey)
		if !ok || envValue == "" {
			continue
		}

		if err := setValueFromString(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s from %s: %w", fieldType.Name, envKey, err)
		}
	}

	return nil
}

func setValueFromString(elem reflect.Value, value string) error {
	if elem.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value: %s", value)
		}
		elem.SetInt(int64(d))
		return nil
	}

	switch elem.Kind() {
	case reflect.String:
		elem.SetString(value)
	case reflect.Bool:
		val, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		elem.SetBool(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		elem.SetInt(val)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer value: %s", value)
		}
		elem.SetUint(val)
	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
		elem.SetFloat(val)
	case reflect.Slice:
		if elem.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type %s", elem.Type().Elem().Kind())
		}
		parts := strings.Split(value, ",")
		slice := reflect.MakeSlice(elem.Type(), 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				slice = reflect.Append(slice, reflect.ValueOf(part).Convert(elem.Type().Elem()))
			}
		}
		elem.Set(slice)
	case reflect.Map:
		return setMapFromString(elem, value)
	default:
		return fmt.Errorf("unsupported type %s", elem.Kind())
	}
	return nil
}

// setMapFromString parses "key=value,key=value" into a string-keyed map.
func setMapFromString(field reflect.Value, value string) error {
	if field.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("unsupported map key type %s", field.Type().Key().Kind())
	}

	mapValue := reflect.MakeMap(field.Type())
	for _, pair := range strings.Split(value, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}

		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return fmt.Errorf("invalid map pair %q (expected key=value)", pair)
		}

		item := reflect.New(field.Type().Elem()).Elem()
		if err := setValueFromString(item, strings.TrimSpace(parts[1])); err != nil {
			return err
		}
		key := reflect.ValueOf(strings.TrimSpace(parts[0])).Convert(field.Type().Key())
		mapValue.SetMapIndex(key, item)
	}

	field.Set(mapValue)
	return nil
}
