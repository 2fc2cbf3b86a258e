package bundle

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// BodyParametersField names the metadata field listing the body sprites.
const BodyParametersField = "m_bodyParameters"

// ErrNoBodyParameters is returned when no metadata tree carries a body list.
var ErrNoBodyParameters = errors.New("bundle: no body parameters")

// BodyParameters returns the ordered body names from the first metadata tree
// holding a non-empty BodyParametersField, searched depth first.
func (b *Bundle) BodyParameters() ([]string, error) {
	for _, raw := range b.Metadata {
		if !gjson.ValidBytes(raw) {
			continue
		}
		res, ok := findField(gjson.ParseBytes(raw), BodyParametersField)
		if !ok || !res.IsArray() {
			continue
		}

		var bodies []string
		res.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String && v.Str != "" {
				bodies = append(bodies, v.Str)
			}
			return true
		})
		if len(bodies) > 0 {
			return bodies, nil
		}
	}
	return nil, ErrNoBodyParameters
}

// findField walks objects and arrays looking for key. Keys are compared
// verbatim, so names containing path metacharacters need no escaping.
func findField(r gjson.Result, key string) (gjson.Result, bool) {
	if !r.IsObject() && !r.IsArray() {
		return gjson.Result{}, false
	}

	var found gjson.Result
	ok := false
	isObject := r.IsObject()
	r.ForEach(func(k, v gjson.Result) bool {
		if isObject && k.Str == key {
			found, ok = v, true
			return false
		}
		if f, hit := findField(v, key); hit {
			found, ok = f, true
			return false
		}
		return true
	})
	return found, ok
}
