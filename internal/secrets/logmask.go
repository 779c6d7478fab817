// SPDX-License-Identifier: MIT

package secrets

import (
	"fmt"
	"reflect"
	"strings"
)

const maskedValue = "***"

// sensitiveKeywords contains keywords that indicate sensitive keys.
// Used for keys the registry does not know; registered keys carry an explicit flag.
var sensitiveKeywords = []string{
	"password",
	"pass",
	"secret_key",
	"token",
	"apikey",
	"api_key",
	"credential",
}

// isSensitiveKey checks if a key name contains any sensitive keyword.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}

// MaskSecrets recursively masks sensitive fields in the given data structure.
// Map keys and struct field names matching a sensitive keyword have non-empty
// string values replaced with "***". Supports maps, slices, structs and pointers.
func MaskSecrets(data any) any {
	if data == nil {
		return nil
	}

	val := reflect.ValueOf(data)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		result := make(map[string]any, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			result[key] = maskField(key, iter.Value())
		}
		return result

	case reflect.Slice, reflect.Array:
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			result[i] = MaskSecrets(val.Index(i).Interface())
		}
		return result

	case reflect.Struct:
		result := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			result[field.Name] = maskField(field.Name, val.Field(i))
		}
		return result

	default:
		return val.Interface()
	}
}

func maskField(name string, v reflect.Value) any {
	if isSensitiveKey(name) {
		for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}
		if v.Kind() == reflect.String && v.Len() > 0 {
			return maskedValue
		}
	}
	return MaskSecrets(v.Interface())
}

// Redacted returns a copy of s with every non-empty password masked.
func (s Secrets) Redacted() Secrets {
	mask := func(v string) string {
		if v == "" {
			return v
		}
		return maskedValue
	}

	out := s
	out.WiFi.Password = mask(s.WiFi.Password)
	if s.MQTT.Password != nil {
		out.MQTT.Password = Ptr(mask(*s.MQTT.Password))
	}
	if s.OTA.Password != nil {
		out.OTA.Password = Ptr(mask(*s.OTA.Password))
	}
	return out
}
