package backend

import (
	"fmt"
	"math"
	"math/big"

	jsoniter "github.com/json-iterator/go"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/deltahdl/driftgate/internal/errors"
)

// ctyToGo converts an evaluated HCL value to a plain Go value. Backend
// blocks are literal-only in practice, but nested maps (e.g. assume_role)
// still need the JSON fallback path.
func ctyToGo(val cty.Value) (any, error) {
	if !val.IsKnown() {
		return nil, errors.New(errors.CodeBackendParseError, "cannot convert unknown value in backend block")
	}
	if val.IsNull() {
		return nil, nil
	}

	var goVal any
	err := gocty.FromCtyValue(val, &goVal)
	if err == nil {
		if val.Type().Equals(cty.Number) {
			bf := val.AsBigFloat()
			if i64, acc := bf.Int64(); acc == big.Exact {
				return i64, nil
			}
			f64, _ := bf.Float64()
			if !math.IsInf(f64, 0) {
				return f64, nil
			}
			return bf.Text('g', -1), nil
		}
		return goVal, nil
	}

	jsonBytes, marshalErr := ctyjson.Marshal(val, val.Type())
	if marshalErr != nil {
		return nil, errors.Wrap(marshalErr, errors.CodeBackendParseError,
			fmt.Sprintf("failed to marshal %s value to intermediary JSON", val.Type().FriendlyName()))
	}

	var final any
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	if unmarshalErr := json.Unmarshal(jsonBytes, &final); unmarshalErr != nil {
		return nil, errors.Wrap(unmarshalErr, errors.CodeBackendParseError,
			fmt.Sprintf("failed to unmarshal intermediary JSON for %s value", val.Type().FriendlyName()))
	}
	return final, nil
}
