package rooms

import (
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/campus-oda/oda-rooms/pkg/oda"
)

// JSON keys of the upstream room schema.
const (
	keyID          = "id"
	keyURL         = "url"
	keyName        = "name"
	keyType        = "type"
	keyFloor       = "floor"
	keyTotalSeats  = "totalSeats"
	keyDescription = "description"
	keyBuilding    = "building"
)

// DecodeRoom maps one JSON room object to a Room. Only "id" is mandatory;
// absent or null optional fields keep their zero value and unknown keys are ignored.
func DecodeRoom(data []byte) (Room, error) {
	if !wellFormed(data) {
		return Room{}, &oda.DecodeError{Reason: oda.ErrMalformed}
	}
	return decodeRoom(object{any: jsoniter.Get(data)})
}

// DecodeRooms maps a JSON array of room objects to Rooms in array order. Any
// element failing to decode fails the whole list.
func DecodeRooms(data []byte) ([]Room, error) {
	if !wellFormed(data) {
		return nil, &oda.DecodeError{Reason: oda.ErrMalformed}
	}
	root := jsoniter.Get(data)
	if root.ValueType() != jsoniter.ArrayValue {
		return nil, oda.WrongType("", "array", typeName(root.ValueType()))
	}

	n := root.Size()
	out := make([]Room, 0, n)
	for i := 0; i < n; i++ {
		room, err := decodeRoom(object{any: root.Get(i)})
		if err != nil {
			return nil, oda.InElement(i, err)
		}
		out = append(out, room)
	}
	return out, nil
}

// wellFormed reports whether data is exactly one JSON value with nothing but
// whitespace after it.
func wellFormed(data []byte) bool {
	if !jsoniter.Valid(data) {
		return false
	}
	iter := jsoniter.ConfigDefault.BorrowIterator(data)
	defer jsoniter.ConfigDefault.ReturnIterator(iter)
	iter.Skip()
	iter.WhatIsNext()
	return iter.Error == io.EOF
}

func decodeRoom(o object) (Room, error) {
	if err := o.expectObject(); err != nil {
		return Room{}, err
	}

	var (
		r   Room
		err error
	)
	if r.ID, err = o.identifier(keyID); err != nil {
		return Room{}, err
	}
	if r.URL, err = o.str(keyURL); err != nil {
		return Room{}, err
	}
	if r.Name, err = o.str(keyName); err != nil {
		return Room{}, err
	}
	if r.Type, err = o.str(keyType); err != nil {
		return Room{}, err
	}
	if r.Floor, err = o.literal(keyFloor); err != nil {
		return Room{}, err
	}
	if r.TotalSeats, err = o.integer(keyTotalSeats); err != nil {
		return Room{}, err
	}
	if r.Description, err = o.str(keyDescription); err != nil {
		return Room{}, err
	}

	b, ok, err := o.child(keyBuilding)
	if err != nil {
		return Room{}, err
	}
	if ok {
		building, err := decodeBuilding(b)
		if err != nil {
			return Room{}, err
		}
		r.Building = &building
	}
	return r, nil
}

func decodeBuilding(o object) (Building, error) {
	var (
		b   Building
		err error
	)
	if b.ID, err = o.identifier(keyID); err != nil {
		return Building{}, err
	}
	if b.Name, err = o.str(keyName); err != nil {
		return Building{}, err
	}
	if b.URL, err = o.str(keyURL); err != nil {
		return Building{}, err
	}
	return b, nil
}

// object reads typed fields out of a JSON object, tracking the field path for errors.
type object struct {
	any    jsoniter.Any
	prefix string
}

func (o object) path(key string) string {
	if o.prefix == "" {
		return key
	}
	return o.prefix + "." + key
}

func (o object) expectObject() error {
	if t := o.any.ValueType(); t != jsoniter.ObjectValue {
		return oda.WrongType(o.prefix, "object", typeName(t))
	}
	return nil
}

// lookup returns the value under key; null counts as absent.
func (o object) lookup(key string) (jsoniter.Any, bool) {
	v := o.any.Get(key)
	switch v.ValueType() {
	case jsoniter.InvalidValue, jsoniter.NilValue:
		return nil, false
	}
	return v, true
}

func (o object) str(key string) (string, error) {
	v, ok := o.lookup(key)
	if !ok {
		return "", nil
	}
	if t := v.ValueType(); t != jsoniter.StringValue {
		return "", oda.WrongType(o.path(key), "string", typeName(t))
	}
	return v.ToString(), nil
}

// literal accepts a string or a number, keeping the number's literal text.
func (o object) literal(key string) (string, error) {
	v, ok := o.lookup(key)
	if !ok {
		return "", nil
	}
	switch t := v.ValueType(); t {
	case jsoniter.StringValue, jsoniter.NumberValue:
		return v.ToString(), nil
	default:
		return "", oda.WrongType(o.path(key), "string or number", typeName(t))
	}
}

// identifier is a mandatory, non-empty literal.
func (o object) identifier(key string) (string, error) {
	id, err := o.literal(key)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", oda.Missing(o.path(key))
	}
	return id, nil
}

// integer accepts a whole JSON number or a string holding one.
func (o object) integer(key string) (int, error) {
	v, ok := o.lookup(key)
	if !ok {
		return 0, nil
	}
	t := v.ValueType()
	if t != jsoniter.NumberValue && t != jsoniter.StringValue {
		return 0, oda.WrongType(o.path(key), "integer", typeName(t))
	}
	n, err := strconv.Atoi(v.ToString())
	if err != nil {
		return 0, oda.WrongType(o.path(key), "integer", strconv.Quote(v.ToString()))
	}
	return n, nil
}

// child returns the nested object under key.
func (o object) child(key string) (object, bool, error) {
	v, ok := o.lookup(key)
	if !ok {
		return object{}, false, nil
	}
	if t := v.ValueType(); t != jsoniter.ObjectValue {
		return object{}, false, oda.WrongType(o.path(key), "object", typeName(t))
	}
	return object{any: v, prefix: o.path(key)}, true, nil
}

func typeName(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "bool"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "invalid"
	}
}
