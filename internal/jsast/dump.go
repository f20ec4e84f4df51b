package jsast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"
)

// Dump encodes a tree as indented ESTree-style JSON. Every node object
// carries a "type" key followed by its fields in declaration order, with
// lowerCamel names.
func Dump(n Node) ([]byte, error) {
	v, err := dumpValue(reflect.ValueOf(n))
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tree: %w", err)
	}
	return append(out, '\n'), nil
}

// object is a JSON object that keeps its key order.
type object struct {
	keys   []string
	values []interface{}
}

func (o *object) set(key string, value interface{}) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var nodeType = reflect.TypeOf((*Node)(nil)).Elem()

func dumpValue(v reflect.Value) (interface{}, error) {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return dumpValue(v.Elem())
	case reflect.Ptr:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Implements(nodeType) {
			return dumpNode(v)
		}
		return dumpValue(v.Elem())
	case reflect.Slice:
		items := make([]interface{}, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := dumpValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case reflect.String, reflect.Bool:
		return v.Interface(), nil
	default:
		return nil, fmt.Errorf("cannot dump %s", v.Type())
	}
}

func dumpNode(v reflect.Value) (interface{}, error) {
	node := v.Interface().(Node)
	obj := &object{}
	obj.set("type", node.Type())

	if lit, ok := node.(*Literal); ok {
		obj.set("value", lit.Value)
		if lit.Raw != "" {
			obj.set("raw", lit.Raw)
		}
		return obj, nil
	}

	elem := v.Elem()
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		field, err := dumpValue(elem.Field(i))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", node.Type(), t.Field(i).Name, err)
		}
		obj.set(strcase.ToLowerCamel(t.Field(i).Name), field)
	}
	return obj, nil
}
