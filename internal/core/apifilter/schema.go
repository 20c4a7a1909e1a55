package apifilter

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind tells the builder how to cast a raw query-string value for a field.
type Kind int

const (
	String Kind = iota
	Number
	Date
	Bool
	ObjectID
)

// Schema describes the collection a query targets. Fields not listed are
// treated as strings.
type Schema struct {
	Fields map[string]Kind
	// Hidden fields are excluded from every projection.
	Hidden []string
	// DefaultSort uses the same syntax as the sort parameter, e.g. "-postingDate".
	DefaultSort string
}

func (s Schema) kind(field string) Kind {
	if k, ok := s.Fields[field]; ok {
		return k
	}
	return String
}

// isHidden reports whether field is a hidden field or a path inside one.
func (s Schema) isHidden(field string) bool {
	for _, h := range s.Hidden {
		if field == h || strings.HasPrefix(field, h+".") {
			return true
		}
	}
	return false
}

// cast converts raw according to the field kind. Values that do not parse
// are passed through unchanged and left to the database to reject or ignore.
func (s Schema) cast(field, raw string) any {
	switch s.kind(field) {
	case Number:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case Date:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC()
			}
		}
	case Bool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case ObjectID:
		if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
			return oid
		}
	}
	return raw
}
