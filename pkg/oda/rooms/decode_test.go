package rooms

import (
	"errors"
	"testing"

	"github.com/campus-oda/oda-rooms/pkg/oda"
)

func TestDecodeRoomMapsAllFields(t *testing.T) {
	raw := []byte(`{
  "id": "r-101",
  "url": "https://api.example.org/v1/rooms/r-101",
  "name": "Lecture Hall 1",
  "type": "lecture",
  "floor": 2,
  "totalSeats": 180,
  "description": "Ground floor, east wing",
  "building": {"id": "b-7", "name": "North", "url": "https://api.example.org/v1/buildings/b-7"},
  "extra": {"ignored": true}
}`)

	room, err := DecodeRoom(raw)
	if err != nil {
		t.Fatalf("DecodeRoom: %v", err)
	}
	want := Room{
		ID:          "r-101",
		URL:         "https://api.example.org/v1/rooms/r-101",
		Name:        "Lecture Hall 1",
		Type:        "lecture",
		Floor:       "2",
		TotalSeats:  180,
		Description: "Ground floor, east wing",
	}
	got := room
	got.Building = nil
	if got != want {
		t.Fatalf("room = %+v, want %+v", got, want)
	}
	if room.Building == nil || *room.Building != (Building{ID: "b-7", Name: "North", URL: "https://api.example.org/v1/buildings/b-7"}) {
		t.Fatalf("building = %+v", room.Building)
	}
}

func TestDecodeRoomDefaultsOptionalFields(t *testing.T) {
	room, err := DecodeRoom([]byte(`{"id": 42, "name": null, "building": null}`))
	if err != nil {
		t.Fatalf("DecodeRoom: %v", err)
	}
	if room != (Room{ID: "42"}) {
		t.Fatalf("room = %+v", room)
	}
	if room.DisplayName() != "42" {
		t.Fatalf("DisplayName() = %q", room.DisplayName())
	}
}

func TestDecodeRoomSeatsFromString(t *testing.T) {
	room, err := DecodeRoom([]byte(`{"id":"1","totalSeats":"24"}`))
	if err != nil {
		t.Fatalf("DecodeRoom: %v", err)
	}
	if room.TotalSeats != 24 {
		t.Fatalf("TotalSeats = %d", room.TotalSeats)
	}
}

func TestDecodeRoomMissingID(t *testing.T) {
	for _, raw := range []string{`{"name":"A"}`, `{"id":null}`, `{"id":""}`} {
		_, err := DecodeRoom([]byte(raw))
		if !errors.Is(err, oda.ErrMissingField) {
			t.Errorf("DecodeRoom(%s) err = %v, want ErrMissingField", raw, err)
		}
	}
}

func TestDecodeRoomWrongTypes(t *testing.T) {
	cases := map[string]string{
		`{"id":"1","name":5}`:              "name",
		`{"id":true}`:                      "id",
		`{"id":"1","totalSeats":12.5}`:     "totalSeats",
		`{"id":"1","totalSeats":"many"}`:   "totalSeats",
		`{"id":"1","building":"north"}`:    "building",
		`{"id":"1","building":{"name":1}}`: "building.id",
		`{"id":"1","floor":[1]}`:           "floor",
	}
	for raw, field := range cases {
		_, err := DecodeRoom([]byte(raw))
		var de *oda.DecodeError
		if !errors.As(err, &de) {
			t.Errorf("DecodeRoom(%s) err = %v, want DecodeError", raw, err)
			continue
		}
		if de.Field != field {
			t.Errorf("DecodeRoom(%s) field = %q, want %q", raw, de.Field, field)
		}
	}
}

func TestDecodeRoomRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`[]`, `"room"`, `{"id":`, ``} {
		if _, err := DecodeRoom([]byte(raw)); err == nil {
			t.Errorf("DecodeRoom(%q) expected error", raw)
		}
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	for _, raw := range []string{
		`{"id":"1","name":"A"} trailing-garbage`,
		`{"id":"1"}}`,
		`{"id":"1"} {"id":"2"}`,
	} {
		if _, err := DecodeRoom([]byte(raw)); !errors.Is(err, oda.ErrMalformed) {
			t.Errorf("DecodeRoom(%q) err = %v, want ErrMalformed", raw, err)
		}
	}
	for _, raw := range []string{`[{"id":"1"}]]]`, `[{"id":"1"}] x`, `[] []`} {
		if _, err := DecodeRooms([]byte(raw)); !errors.Is(err, oda.ErrMalformed) {
			t.Errorf("DecodeRooms(%q) err = %v, want ErrMalformed", raw, err)
		}
	}

	room, err := DecodeRoom([]byte("\n  {\"id\":\"1\"}\n\t "))
	if err != nil || room.ID != "1" {
		t.Fatalf("surrounding whitespace should be accepted: %+v %v", room, err)
	}
}

func TestDecodeRoomsPreservesOrder(t *testing.T) {
	rooms, err := DecodeRooms([]byte(`[{"id":"1","name":"A"},{"id":"2","name":"B"},{"id":"3"}]`))
	if err != nil {
		t.Fatalf("DecodeRooms: %v", err)
	}
	want := []Room{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}, {ID: "3"}}
	if len(rooms) != len(want) {
		t.Fatalf("len = %d, want %d", len(rooms), len(want))
	}
	for i := range want {
		if rooms[i] != want[i] {
			t.Errorf("rooms[%d] = %+v, want %+v", i, rooms[i], want[i])
		}
	}
}

func TestDecodeRoomsEmptyArray(t *testing.T) {
	rooms, err := DecodeRooms([]byte(`[]`))
	if err != nil {
		t.Fatalf("DecodeRooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("expected no rooms, got %d", len(rooms))
	}
}

func TestDecodeRoomsFailsOnBadElement(t *testing.T) {
	_, err := DecodeRooms([]byte(`[{"id":"1"},{"name":"no id"}]`))
	var de *oda.DecodeError
	if !errors.As(err, &de) || de.Field != "[1].id" {
		t.Fatalf("err = %v, want DecodeError at [1].id", err)
	}
	if _, err := DecodeRooms([]byte(`{"id":"1"}`)); !errors.Is(err, oda.ErrWrongType) {
		t.Fatalf("object body err = %v, want ErrWrongType", err)
	}
	if _, err := DecodeRooms([]byte(`[1]`)); !errors.Is(err, oda.ErrWrongType) {
		t.Fatalf("scalar element err = %v, want ErrWrongType", err)
	}
}

func TestDecodeRoomSeatsMustBeWholeNumbers(t *testing.T) {
	for _, raw := range []string{
		`{"id":"1","totalSeats":24.0}`,
		`{"id":"1","totalSeats":2.4e1}`,
		`{"id":"1","totalSeats":"24.5"}`,
		`{"id":"1","totalSeats":true}`,
	} {
		_, err := DecodeRoom([]byte(raw))
		var de *oda.DecodeError
		if !errors.As(err, &de) || !errors.Is(err, oda.ErrWrongType) || de.Field != "totalSeats" {
			t.Errorf("DecodeRoom(%s) err = %v, want wrong type on totalSeats", raw, err)
		}
	}
}
