package cms

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// DecodeHome decodes a home document one field at a time. A field whose value has the wrong
// shape is dropped, so FallbackMerge fills it from the defaults while its siblings are kept.
// Skipped lists the dropped fields as dotted JSON paths. A nil or null document yields nil.
func DecodeHome(data []byte) (home *RemoteHome, skipped []string, err error) {
	if isNull(data) {
		return nil, nil, nil
	}
	home = &RemoteHome{}
	skipped, err = decodeFields(data, home)
	if err != nil {
		return nil, nil, err
	}
	return home, skipped, nil
}

// decodeFields fills the struct out points to from a JSON object. Nested struct pointers are
// decoded the same way; any other field either decodes whole or stays zero.
func decodeFields(data []byte, out any) ([]string, error) {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("cms: decode fields: %T is not a struct pointer", out)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("cms: decode document: %w", err)
	}
	return decodeStruct(obj, v.Elem(), ""), nil
}

func decodeStruct(obj map[string]json.RawMessage, v reflect.Value, prefix string) []string {
	var skipped []string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if !field.IsExported() || name == "" || name == "-" {
			continue
		}
		raw, ok := obj[name]
		if !ok || isNull(raw) {
			continue
		}
		path := prefix + name

		if field.Type.Kind() == reflect.Pointer && field.Type.Elem().Kind() == reflect.Struct {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(raw, &nested); err != nil {
				skipped = append(skipped, path)
				continue
			}
			section := reflect.New(field.Type.Elem())
			skipped = append(skipped, decodeStruct(nested, section.Elem(), path+".")...)
			v.Field(i).Set(section)
			continue
		}

		target := reflect.New(field.Type)
		if err := json.Unmarshal(raw, target.Interface()); err != nil {
			skipped = append(skipped, path)
			continue
		}
		v.Field(i).Set(target.Elem())
	}
	return skipped
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
