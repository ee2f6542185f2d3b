package runtime

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// StructToQuery flattens a generated query-parameter struct (or a pointer to one, or
// nil) into url.Values, reading the same `json:"name,omitempty"` tags the struct
// was emitted with so field names line up with the OpenAPI parameter names. Pointer
// fields left nil, and omitempty fields at their zero value, are skipped.
func StructToQuery(v any) url.Values {
	values := url.Values{}
	if v == nil {
		return values
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return values
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return values
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, omitempty := parseJSONTag(tag)
		fv := rv.Field(i)
		for fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				fv = reflect.Value{}
				break
			}
			fv = fv.Elem()
		}
		if !fv.IsValid() {
			continue
		}
		if omitempty && fv.IsZero() {
			continue
		}
		switch fv.Kind() {
		case reflect.Slice, reflect.Array:
			for j := 0; j < fv.Len(); j++ {
				values.Add(name, queryScalar(fv.Index(j)))
			}
		default:
			values.Add(name, queryScalar(fv))
		}
	}
	return values
}

func parseJSONTag(tag string) (name string, omitempty bool) {
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty
}

func queryScalar(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
