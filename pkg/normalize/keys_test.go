package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "already camel", in: "createdAt", want: "createdAt"},
		{name: "pascal", in: "CreatedAt", want: "createdAt"},
		{name: "snake", in: "created_at", want: "createdAt"},
		{name: "all caps acronym", in: "ID", want: "id"},
		{name: "all caps with underscore", in: "ROOM_NO", want: "room_no"},
		{name: "acronym suffix", in: "UserID", want: "userId"},
		{name: "acronym prefix", in: "HTTPServer", want: "httpServer"},
		{name: "kebab", in: "room-no", want: "roomNo"},
		{name: "digits", in: "block3Wing", want: "block3Wing"},
		{name: "single lower", in: "id", want: "id"},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Key(tc.in))
		})
	}
}

func TestKeysObject(t *testing.T) {
	in := map[string]interface{}{
		"ID":        float64(1),
		"UserID":    float64(2),
		"CreatedAt": "2025-01-05T10:00:00Z",
	}

	got := Keys(in)

	assert.Equal(t, map[string]interface{}{
		"id":        float64(1),
		"userId":    float64(2),
		"createdAt": "2025-01-05T10:00:00Z",
	}, got)
}

func TestKeysIdempotent(t *testing.T) {
	in := map[string]interface{}{
		"Student_Name": "Rina",
		"RoomNumber":   "B-204",
	}

	once := Keys(in)
	twice := Keys(once)

	assert.Equal(t, once, twice)
}

func TestKeysNested(t *testing.T) {
	in := map[string]interface{}{
		"Complaint_List": []interface{}{
			map[string]interface{}{
				"STATUS": "In-Review",
				"Student": map[string]interface{}{
					"Full_Name": "Dewi",
				},
			},
		},
	}

	got, ok := Keys(in).(map[string]interface{})
	assert.True(t, ok)

	list, ok := got["complaintList"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, list, 1)

	first, ok := list[0].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "In-Review", first["status"])

	student, ok := first["student"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Dewi", student["fullName"])
}

func TestKeysDoesNotMutateInput(t *testing.T) {
	in := map[string]interface{}{
		"Old_Key": "value",
	}

	_ = Keys(in)

	_, stillThere := in["Old_Key"]
	assert.True(t, stillThere)
	assert.Len(t, in, 1)
}

func TestKeysScalarPassthrough(t *testing.T) {
	assert.Nil(t, Keys(nil))
	assert.Equal(t, "plain", Keys("plain"))
	assert.Equal(t, float64(42), Keys(float64(42)))
	assert.Equal(t, true, Keys(true))
}
