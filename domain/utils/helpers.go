// Package utils holds conversion helpers shared by the domain packages.
package utils

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

// SettingsFromStruct flattens a settings Struct into name -> value text.
// Numbers and bools are rendered in their canonical text form; lists and nested
// objects are rejected because vendor tools only take scalar values.
func SettingsFromStruct(s *structpb.Struct) (map[string]string, error) {
	if s == nil {
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(s.GetFields()))
	for key, value := range s.GetFields() {
		text, err := ValueString(value)
		if err != nil {
			return nil, bcerrors.New(bcerrors.KindValidation, fmt.Errorf("setting %q: %w", key, err))
		}
		out[key] = text
	}
	return out, nil
}

// ValueString renders a scalar structpb.Value as text.
func ValueString(v *structpb.Value) (string, error) {
	switch kind := v.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return "", nil
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue), nil
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value kind %T", kind)
	}
}

// StructFromSettings builds a Struct holding string values.
func StructFromSettings(settings map[string]string) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(settings))
	for k, v := range settings {
		fields[k] = structpb.NewStringValue(v)
	}
	return &structpb.Struct{Fields: fields}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProtoMessageToMap converts proto message into map via protojson.
func ProtoMessageToMap(msg proto.Message) map[string]any {
	if msg == nil {
		return nil
	}
	marshaler := protojson.MarshalOptions{
		UseProtoNames:   true,
		EmitUnpopulated: false,
	}
	data, err := marshaler.Marshal(msg)
	if err != nil {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}
