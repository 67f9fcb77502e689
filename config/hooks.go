package config

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// millisecondsHookFunc decodes bare numbers into durations as milliseconds,
// the unit the dashboard's interval settings have always been written in.
func millisecondsHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Millisecond, nil
		case int64:
			return time.Duration(v) * time.Millisecond, nil
		case float64:
			return time.Duration(v * float64(time.Millisecond)), nil
		}
		return data, nil
	}
}
