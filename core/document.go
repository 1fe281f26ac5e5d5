package core

import (
	"encoding/json"
	"reflect"
)

// DocumentStore persists whole named documents. The unit of storage is the
// entire document: Save overwrites everything previously stored under name.
//
// Load must fail soft on a missing or unparsable document: v is left at the
// caller's default value and no error is returned. Any other I/O failure is
// returned to the caller.
//
// Save must be all-or-nothing: a reader either sees the complete new content
// on its next Load, or the prior content if Save failed midway.
type DocumentStore interface {
	Load(name string, v interface{}) error
	Save(name string, v interface{}) error
}

// DecodeDocument unmarshals stored document content into v under the
// fail-soft Load contract. Content that does not decode cleanly into v is
// the "not yet created" case: v keeps its default value. Decoding goes
// through a scratch value so a mid-decode error can never leave v partially
// populated.
func DecodeDocument(data []byte, v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return
	}
	scratch := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal(data, scratch.Interface()); err != nil {
		return
	}
	rv.Elem().Set(scratch.Elem())
}
