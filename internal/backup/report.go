package backup

import (
	"strconv"

	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/validator"
)

// Report converts the result into a validator report for source. For an
// accepted document it also notes the metadata and sections found, and warns
// about legacy key names.
func (r Result) Report(source string, doc jsonvalue.Value) *validator.Result {
	res := &validator.Result{Source: source}
	if !r.Accepted() {
		res.AddError(r.field, r.reason, nil)
		res.Issues[0].Context = map[string]string{"check": r.kind.Error()}
		return res
	}

	obj, ok := doc.(*jsonvalue.Object)
	if !ok {
		return res
	}

	for _, s := range Sections {
		if len(s.Sources) < 2 {
			continue
		}
		canonical, legacy := obj.Has(s.Sources[0]), obj.Has(s.Sources[1])
		switch {
		case canonical && legacy:
			res.AddWarning(s.Sources[1], "ignored, "+s.Sources[0]+" is also present", nil)
		case legacy:
			res.AddWarning(s.Sources[1], "legacy key, restored as "+s.Key, nil)
		}
	}

	if v, ok := obj.Get(KeyBackupDate); ok {
		res.AddInfo(KeyBackupDate, string(v.(jsonvalue.String)), nil)
	}
	if v, ok := obj.Get(KeyAppVersion); ok {
		if s, isStr := v.(jsonvalue.String); isStr {
			res.AddInfo(KeyAppVersion, string(s), nil)
		}
	}
	for _, s := range Sections {
		v, src, ok := sectionValue(obj, s)
		if !ok {
			continue
		}
		desc := v.Kind().String()
		if arr, isArr := v.(jsonvalue.Array); isArr {
			desc = strconv.Itoa(len(arr)) + " item(s)"
		}
		res.AddInfo(src, desc, nil)
	}
	return res
}

// sectionValue returns the value restored for s and the document key it
// comes from.
func sectionValue(doc *jsonvalue.Object, s Section) (jsonvalue.Value, string, bool) {
	for _, src := range s.Sources {
		if v, ok := doc.Get(src); ok {
			return v, src, true
		}
	}
	return nil, "", false
}
