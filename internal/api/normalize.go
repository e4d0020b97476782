package api

import "github.com/tidwall/gjson"

// NormalizeResponse extracts the record list from a list response. It
// accepts a bare array, {"data": [...]}, or an object whose first
// array-valued property is the payload. Anything else yields an empty,
// non-nil slice.
func NormalizeResponse(body gjson.Result) []gjson.Result {
	switch {
	case body.IsArray():
		return records(body)
	case body.IsObject():
		if data := body.Get("data"); data.IsArray() {
			return records(data)
		}
		var found gjson.Result
		body.ForEach(func(_, v gjson.Result) bool {
			if v.IsArray() {
				found = v
				return false
			}
			return true
		})
		if found.IsArray() {
			return records(found)
		}
	}
	return []gjson.Result{}
}

// NormalizeRecord extracts a single record from a create/update response,
// unwrapping {"data": {...}} and similar envelopes.
func NormalizeRecord(body gjson.Result) gjson.Result {
	if !body.IsObject() {
		return gjson.Result{}
	}
	for _, key := range []string{"data", "record", "item", "result"} {
		if v := body.Get(key); v.IsObject() {
			return v
		}
	}
	return body
}

func records(arr gjson.Result) []gjson.Result {
	out := []gjson.Result{}
	arr.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			out = append(out, v)
		}
		return true
	})
	return out
}
