package types

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"time"
	"unicode/utf8"
)

type toJsonFn func(value interface{}) interface{}

var converters = []toJsonFn{
	ByteArrayToString,
	TimeAsString,
	StringerToString,
}

// ToJsonValues converts the values of database rows in place into values with
// a stable JSON representation
func ToJsonValues(rows []map[string]interface{}) []map[string]interface{} {
	for _, row := range rows {
		for column, value := range row {
			row[column] = ToJsonValue(value)
		}
	}
	return rows
}

func ToJsonValue(value interface{}) interface{} {
	if value == nil {
		return nil
	}
	for _, converter := range converters {
		value = converter(value)
	}
	return value
}

// ByteArrayToString converts raw bytes, used by drivers for text and numeric
// columns, into a string. Binary values are encoded with base64.
func ByteArrayToString(value interface{}) interface{} {
	switch value := value.(type) {
	case []byte:
		if value == nil {
			return nil
		}
		if utf8.Valid(value) {
			return string(value)
		}
		return base64.StdEncoding.EncodeToString(value)
	default:
		return value
	}
}

func StringerToString(value interface{}) interface{} {
	switch value := value.(type) {
	case string:
		return value
	case fmt.Stringer:
		if value == nil {
			return value
		}
		return value.String()
	default:
		return value
	}
}

func TimeAsString(value interface{}) interface{} {
	switch value := value.(type) {
	case time.Time:
		return marshalText(&value)
	case *time.Time:
		if value == nil {
			return nil
		}
		return marshalText(value)
	default:
		return value
	}
}

func marshalText(value encoding.TextMarshaler) *string {
	buff, err := value.MarshalText()
	if err != nil {
		return nil
	}

	var s = string(buff)
	return &s
}
