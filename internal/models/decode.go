package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
)

// ErrNotObject is returned when a roster record is not a JSON object.
var ErrNotObject = errors.New("roster record is not a JSON object")

// DecodeModite decodes one roster record field by field. A field holding a
// value of the wrong type is left at its zero value and its path is
// returned in malformed; a location with a malformed coordinate is dropped
// as a whole.
func DecodeModite(data []byte) (m Modite, malformed []string, err error) {
	d := fieldDecoder{bad: &malformed}
	ok := d.object(data, map[string]fieldFunc{
		"id":        value(&m.ID),
		"name":      value(&m.Name),
		"real_name": value(&m.RealName),
		"tz":        value(&m.TZ),
		"color":     value(&m.Color),
		"tacos":     value(&m.Tacos),
		"profile":   nested(profileFields(&m.Profile)),
	})
	if !ok {
		return Modite{}, nil, ErrNotObject
	}
	slices.Sort(malformed)
	return m, malformed, nil
}

// UnmarshalJSON decodes a roster record, zeroing malformed fields instead
// of failing.
func (m *Modite) UnmarshalJSON(data []byte) error {
	decoded, _, err := DecodeModite(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

func profileFields(p *Profile) map[string]fieldFunc {
	return map[string]fieldFunc{
		"title":        value(&p.Title),
		"display_name": value(&p.DisplayName),
		"real_name":    value(&p.RealName),
		"first_name":   value(&p.FirstName),
		"last_name":    value(&p.LastName),
		"phone":        value(&p.Phone),
		"email":        value(&p.Email),
		"image_72":     value(&p.Image72),
		"image_192":    value(&p.Image192),
		"image_512":    value(&p.Image512),
		"fields": nested(map[string]fieldFunc{
			"Location":     value(&p.Fields.Location),
			"Title":        value(&p.Fields.Title),
			"GitHub User":  value(&p.Fields.GitHubUser),
			"Skype User":   value(&p.Fields.SkypeUser),
			"locationData": location(&p.Fields.LocationData),
		}),
	}
}

type fieldFunc func(d fieldDecoder, raw json.RawMessage)

// fieldDecoder walks a JSON object and records the paths of fields that
// could not be decoded.
type fieldDecoder struct {
	path string
	bad  *[]string
}

func (d fieldDecoder) child(key string) fieldDecoder {
	if d.path == "" {
		return fieldDecoder{path: key, bad: d.bad}
	}
	return fieldDecoder{path: d.path + "." + key, bad: d.bad}
}

func (d fieldDecoder) fail() {
	*d.bad = append(*d.bad, d.path)
}

// object decodes the known keys of a JSON object. Unknown keys and null
// values are skipped. It reports false when data is not an object.
func (d fieldDecoder) object(data []byte, fields map[string]fieldFunc) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}
	for key, decode := range fields {
		v, ok := raw[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		decode(d.child(key), v)
	}
	return true
}

func value[T any](dst *T) fieldFunc {
	return func(d fieldDecoder, raw json.RawMessage) {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			d.fail()
			return
		}
		*dst = v
	}
}

func nested(fields map[string]fieldFunc) fieldFunc {
	return func(d fieldDecoder, raw json.RawMessage) {
		if !d.object(raw, fields) {
			d.fail()
		}
	}
}

func location(dst **LocationData) fieldFunc {
	return func(d fieldDecoder, raw json.RawMessage) {
		var loc LocationData
		before := len(*d.bad)
		if !d.object(raw, map[string]fieldFunc{
			"lat": value(&loc.Lat),
			"lon": value(&loc.Lon),
		}) {
			d.fail()
			return
		}
		if len(*d.bad) == before {
			*dst = &loc
		}
	}
}
