package service

import (
	"html"
	"reflect"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips markup and surrounding whitespace from every string reachable
// from the pointer payload.
func Sanitize(payload interface{}) {
	value := reflect.ValueOf(payload)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return
	}
	sanitizeValue(value.Elem())
}

// SanitizeText cleans a single free-text value.
func SanitizeText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(raw)))
}

func sanitizeValue(value reflect.Value) {
	switch value.Kind() {
	case reflect.String:
		if value.CanSet() {
			value.SetString(SanitizeText(value.String()))
		}
	case reflect.Struct:
		for i := 0; i < value.NumField(); i++ {
			if value.Type().Field(i).IsExported() {
				sanitizeValue(value.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			sanitizeValue(value.Index(i))
		}
	case reflect.Pointer:
		if !value.IsNil() {
			sanitizeValue(value.Elem())
		}
	}
}
