package postcodes

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// object is a decoded JSON object whose members are decoded lazily.
type object map[string]json.RawMessage

// optional distinguishes a field that was present from one that was absent,
// null, or of the wrong JSON type.
type optional[T any] struct {
	value T
	ok    bool
}

func (o optional[T]) orZero() T {
	if !o.ok {
		var zero T
		return zero
	}

	return o.value
}

// field reads key from obj as a T. Absent keys, null and values of another
// JSON type all yield an empty optional.
func field[T any](obj object, key string) optional[T] {
	raw, ok := obj[key]
	if !ok {
		return optional[T]{}
	}

	var ptr *T
	if err := json.Unmarshal(raw, &ptr); err != nil || ptr == nil {
		return optional[T]{}
	}

	return optional[T]{value: *ptr, ok: true}
}

// asObject decodes raw as a JSON object. null and non-objects report false.
func asObject(raw json.RawMessage) (object, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}

	return obj, true
}

// parseEnvelope decodes the top-level response object and turns a
// service-reported "error" string into a service error. A body that is not
// JSON is a transport failure when the status already says the call failed,
// and a parse failure otherwise.
func parseEnvelope(body []byte, status int) (object, error) {
	var env object
	if err := json.Unmarshal(body, &env); err != nil {
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return nil, newError(KindTransport, err, "unexpected status %d: %s", status, truncate(body))
		}
		return nil, newError(KindParse, err, "%s", err.Error())
	}
	if env == nil {
		return nil, newError(KindParse, ErrNoResult, "response is not a JSON object")
	}

	if msg := field[string](env, "error"); msg.ok {
		return nil, ServiceError(msg.value)
	}

	return env, nil
}

// mapSingle maps the "result" object of a single or random lookup.
func mapSingle(env object) (Postcode, error) {
	obj, ok := asObject(env["result"])
	if !ok {
		return Postcode{}, newError(KindParse, ErrNoResult, "result is not an object")
	}

	return mapPostcode(obj), nil
}

// mapNearest maps the first element of the "result" array of a reverse
// geocode. An empty or missing array is an error, never a zero record.
func mapNearest(env object) (Postcode, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(env["result"], &items); err != nil && len(env["result"]) > 0 {
		return Postcode{}, newError(KindParse, err, "result is not an array")
	}
	if len(items) == 0 {
		return Postcode{}, newError(KindParse, ErrNoResult, "no postcode found near coordinates")
	}

	obj, ok := asObject(items[0])
	if !ok {
		return Postcode{}, newError(KindParse, ErrNoResult, "result[0] is not an object")
	}

	return mapPostcode(obj), nil
}

// mapBulk maps every element's nested "result" in response order. One
// missing element fails the whole call so positions are never shifted.
func mapBulk(env object) ([]Postcode, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(env["result"], &items); err != nil || items == nil {
		return nil, newError(KindParse, err, "result is not an array")
	}

	out := make([]Postcode, 0, len(items))
	for idx, item := range items {
		entry, ok := asObject(item)
		if !ok {
			return nil, newError(KindParse, ErrNoResult, "result[%d] is not an object", idx)
		}

		obj, ok := asObject(entry["result"])
		if !ok {
			return nil, newError(
				KindParse, ErrNoResult, "result[%d] has no result for query %q",
				idx, field[string](entry, "query").orZero(),
			)
		}

		out = append(out, mapPostcode(obj))
	}

	return out, nil
}

// mapValidity reads the boolean "result" of a validate call. Unlike record
// fields it has no default.
func mapValidity(env object) (bool, error) {
	valid := field[bool](env, "result")
	if !valid.ok {
		return false, ParseError("result wasn't a bool")
	}

	return valid.value, nil
}

// mapPostcode runs the top-level pass and the codes pass over obj.
func mapPostcode(obj object) Postcode {
	pc := mapTopLevel(obj)
	pc.Codes, pc.RawCodes = mapCodes(obj)

	return pc
}

func mapTopLevel(obj object) Postcode {
	str := func(key string) string { return field[string](obj, key).orZero() }
	num := func(key string) float64 { return field[float64](obj, key).orZero() }

	return Postcode{
		Postcode:                  str("postcode"),
		Quality:                   num("quality"),
		Eastings:                  num("eastings"),
		Northings:                 num("northings"),
		Country:                   str("country"),
		NHSHA:                     str("nhs_ha"),
		Longitude:                 num("longitude"),
		Latitude:                  num("latitude"),
		EuropeanElectoralRegion:   str("european_electoral_region"),
		PrimaryCareTrust:          str("primary_care_trust"),
		Region:                    str("region"),
		LSOA:                      str("lsoa"),
		MSOA:                      str("msoa"),
		Incode:                    str("incode"),
		Outcode:                   str("outcode"),
		ParliamentaryConstituency: str("parliamentary_constituency"),
		AdminDistrict:             str("admin_district"),
		Parish:                    str("parish"),
		AdminCounty:               str("admin_county"),
		AdminWard:                 str("admin_ward"),
		CED:                       str("ced"),
		CCG:                       str("ccg"),
		NUTS:                      str("nuts"),
	}
}

// mapCodes reads the nested "codes" group and also returns it as compact JSON.
func mapCodes(obj object) (Codes, string) {
	codesObj, ok := asObject(obj["codes"])
	if !ok {
		return Codes{}, ""
	}

	str := func(key string) string { return field[string](codesObj, key).orZero() }
	codes := Codes{
		AdminDistrict:             str("admin_district"),
		AdminCounty:               str("admin_county"),
		AdminWard:                 str("admin_ward"),
		Parish:                    str("parish"),
		ParliamentaryConstituency: str("parliamentary_constituency"),
		CCG:                       str("ccg"),
		CCGID:                     str("ccg_id"),
		CED:                       str("ced"),
		NUTS:                      str("nuts"),
		LSOA:                      str("lsoa"),
		MSOA:                      str("msoa"),
		LAU2:                      str("lau2"),
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, obj["codes"]); err != nil {
		return codes, ""
	}

	return codes, compact.String()
}

func truncate(body []byte) string {
	const maxBody = 256
	if len(body) > maxBody {
		return string(body[:maxBody]) + "..."
	}

	return string(body)
}
