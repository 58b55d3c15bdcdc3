package configuration

import (
	"reflect"

	"github.com/markusressel/keepcool/internal/curves"
	"github.com/mitchellh/mapstructure"
)

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		CurveIdHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// CurveIdHookFunc returns a mapstructure decode hook that decodes curve
// names ("quadratic") and letter codes ("s") into a curves.CurveId
func CurveIdHookFunc() mapstructure.DecodeHookFuncType {
	curveIdType := reflect.TypeOf(curves.CurveId(0))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != curveIdType || f.Kind() != reflect.String {
			return data, nil
		}
		return curves.ParseCurveId(data.(string))
	}
}
