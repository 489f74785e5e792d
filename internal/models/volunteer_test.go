package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{"Cooking", true},
		{"packaging", true},
		{"cleaning", true},
		{"distributing", true},
		{"cooking", false},
		{"Packaging", false},
		{"invalidrole", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Valid())
		})
	}
}

func TestParseVolunteerID(t *testing.T) {
	id := NewVolunteerID()
	got, err := ParseVolunteerID(" " + id.String() + " ")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "nonexistent", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := ParseVolunteerID(bad)
		assert.ErrorIs(t, err, ErrMalformedID, bad)
	}
}

func TestParseAvailabilities(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "empty", in: "", want: `[]`},
		{name: "null", in: "null", want: `[]`},
		{name: "array", in: `[{"day":"Mon","from":"09:00"},"weekends"]`, want: `[{"day":"Mon","from":"09:00"},"weekends"]`},
		{name: "empty array", in: `[]`, want: `[]`},
		{name: "single object", in: `{"day":"Tue"}`, want: `[{"day":"Tue"}]`},
		{name: "single string", in: `"evenings"`, want: `["evenings"]`},
		{name: "invalid", in: `[{"day":`, wantErr: true},
		{name: "bare word", in: `mondays`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAvailabilities(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			b, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestVolunteerRecordJSONFields(t *testing.T) {
	cv := BlobID("blob-1")
	rec := VolunteerRecord{
		ID:               "65f0c0ffee0000000000abcd",
		Name:             "Ana",
		Email:            "ana@example.org",
		VolunteeringRole: RolePackaging,
		CV:               &cv,
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "65f0c0ffee0000000000abcd", m["_id"])
	assert.Equal(t, false, m["isScreened"])
	assert.Equal(t, "blob-1", m["cv"])
	assert.Equal(t, []any{}, m["availabilities"])
	assert.NotContains(t, m, "gender")
}

func TestAvailabilitiesBSONRoundTrip(t *testing.T) {
	in, err := ParseAvailabilities(`[{"day":"Mon"},"weekends"]`)
	require.NoError(t, err)

	doc, err := bson.Marshal(VolunteerRecord{ID: NewVolunteerID(), Availabilities: in})
	require.NoError(t, err)

	var out VolunteerRecord
	require.NoError(t, bson.Unmarshal(doc, &out))
	require.Len(t, out.Availabilities, 2)
	assert.JSONEq(t, `{"day":"Mon"}`, string(out.Availabilities[0]))
	assert.JSONEq(t, `"weekends"`, string(out.Availabilities[1]))
}

func TestAvailabilitiesBSONForeignShapes(t *testing.T) {
	id := NewVolunteerID()
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"native array", bson.A{"2025-03-01", bson.D{{Key: "day", Value: "Mon"}}, int32(3)}, []string{`"2025-03-01"`, `{"day":"Mon"}`, `3`}},
		{"empty native array", bson.A{}, []string{}},
		{"plain text", "weekday evenings", []string{`"weekday evenings"`}},
		{"json text", `["sat","sun"]`, []string{`"sat"`, `"sun"`}},
		{"single document", bson.D{{Key: "day", Value: "Tue"}}, []string{`{"day":"Tue"}`}},
		{"null", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := bson.Marshal(bson.D{
				{Key: "_id", Value: id.String()},
				{Key: "availabilities", Value: tt.value},
			})
			require.NoError(t, err)

			var out VolunteerRecord
			require.NoError(t, bson.Unmarshal(doc, &out))
			assert.Equal(t, id, out.ID)
			require.Len(t, out.Availabilities, len(tt.want))
			for i, w := range tt.want {
				assert.JSONEq(t, w, string(out.Availabilities[i]))
			}
		})
	}
}
