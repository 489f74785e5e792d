package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VolunteerID identifies a volunteer record. It is generated once at
// sign-up and compared by exact match.
type VolunteerID string

var ErrMalformedID = errors.New("malformed volunteer id")

func NewVolunteerID() VolunteerID {
	return VolunteerID(primitive.NewObjectID().Hex())
}

// ParseVolunteerID accepts only ids in the generated format.
func ParseVolunteerID(s string) (VolunteerID, error) {
	s = strings.TrimSpace(s)
	if !primitive.IsValidObjectID(s) {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, s)
	}
	return VolunteerID(s), nil
}

func (id VolunteerID) String() string { return string(id) }

type Role string

const (
	RoleCooking      Role = "Cooking"
	RolePackaging    Role = "packaging"
	RoleCleaning     Role = "cleaning"
	RoleDistributing Role = "distributing"
)

// AllowedRoles is the fixed set accepted at sign-up. Matching is case-sensitive.
var AllowedRoles = []Role{RoleCooking, RolePackaging, RoleCleaning, RoleDistributing}

func (r Role) Valid() bool {
	for _, a := range AllowedRoles {
		if r == a {
			return true
		}
	}
	return false
}

func AllowedRoleNames() []string {
	out := make([]string, len(AllowedRoles))
	for i, r := range AllowedRoles {
		out[i] = string(r)
	}
	return out
}

// Availabilities is an ordered list of opaque scheduling entries. It is kept
// as JSON text in Mongo so entries round-trip untouched.
type Availabilities []json.RawMessage

func (a Availabilities) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]json.RawMessage(a))
}

func (a Availabilities) MarshalBSONValue() (bsontype.Type, []byte, error) {
	b, err := a.MarshalJSON()
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(string(b))
}

// UnmarshalBSONValue accepts the JSON text written by MarshalBSONValue and
// also records written by other clients: a native BSON array, plain text
// (kept as one string entry) or a single value.
func (a *Availabilities) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Null, bsontype.Undefined:
		*a = Availabilities{}
		return nil
	case bsontype.String:
		s := raw.StringValue()
		if parsed, err := ParseAvailabilities(s); err == nil {
			*a = parsed
			return nil
		}
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		*a = Availabilities{json.RawMessage(b)}
		return nil
	case bsontype.Array:
		values, err := raw.Array().Values()
		if err != nil {
			return err
		}
		out := make(Availabilities, 0, len(values))
		for _, v := range values {
			entry, err := extJSON(v)
			if err != nil {
				return err
			}
			out = append(out, entry)
		}
		*a = out
		return nil
	default:
		entry, err := extJSON(raw)
		if err != nil {
			return err
		}
		*a = Availabilities{entry}
		return nil
	}
}

// extJSON renders a single BSON value as relaxed extended JSON.
func extJSON(v bson.RawValue) (json.RawMessage, error) {
	b, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		V json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.V, nil
}

// ParseAvailabilities decodes the availabilities form field. Empty input
// yields an empty list and a single non-array JSON value becomes one entry.
func ParseAvailabilities(s string) (Availabilities, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return Availabilities{}, nil
	}
	if !json.Valid([]byte(s)) {
		return nil, errors.New("availabilities must be valid JSON")
	}
	if strings.HasPrefix(s, "[") {
		var out []json.RawMessage
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []json.RawMessage{}
		}
		return Availabilities(out), nil
	}
	return Availabilities{json.RawMessage(s)}, nil
}

type VolunteerRecord struct {
	ID                   VolunteerID    `bson:"_id" json:"_id"`
	Name                 string         `bson:"name" json:"name"`
	PhoneNumber          string         `bson:"phone_number" json:"phone_number"`
	DescriptionParagraph string         `bson:"desc_paragraph" json:"desc_paragraph"`
	Email                string         `bson:"email" json:"email"`
	Gender               string         `bson:"gender,omitempty" json:"gender,omitempty"`
	VolunteeringRole     Role           `bson:"volunteering_role" json:"volunteering_role"`
	Availabilities       Availabilities `bson:"availabilities" json:"availabilities"`
	CV                   *BlobID        `bson:"cv" json:"cv"`
	IsScreened           bool           `bson:"is_screened" json:"isScreened"`
	CreatedAt            time.Time      `bson:"created_at" json:"created_at"`
}

// HasCV reports whether the record references an uploaded file.
func (v *VolunteerRecord) HasCV() bool {
	return v.CV != nil && *v.CV != ""
}
