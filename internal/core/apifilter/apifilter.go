// Package apifilter turns URL query parameters into a MongoDB find query.
//
// Steps run in a fixed order when using Build:
//
//	Filter -> Sort -> LimitFields -> Search -> Paginate
//
// Reserved parameters (sort, fields, search, page, limit) only drive their own
// step and never become field filters. Operator suffixes use bracket syntax,
// e.g. salary[gte]=50000 or industry[in]=Business,Banking.
package apifilter

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var reserved = []string{"sort", "fields", "search", "page", "limit"}

var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

var (
	fieldName   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	bracketExpr = regexp.MustCompile(`^([^\[\]]+)\[([a-z]+)\]$`)
)

// Query is the shaped result, ready to hand to a collection Find.
type Query struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
}

// FindOptions converts the query shape into driver options.
func (q Query) FindOptions() *options.FindOptions {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if len(q.Projection) > 0 {
		opts.SetProjection(q.Projection)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

// Builder accumulates query steps. Each step returns the builder so calls
// can be chained.
type Builder struct {
	params url.Values
	schema Schema
	query  Query
}

// New copies values so the caller's map is never modified.
func New(values url.Values, schema Schema) *Builder {
	params := make(url.Values, len(values))
	for k, v := range values {
		params[k] = append([]string(nil), v...)
	}
	return &Builder{
		params: params,
		schema: schema,
		query:  Query{Filter: bson.M{}},
	}
}

// Build runs every step in order and returns the finished query.
func Build(values url.Values, schema Schema) Query {
	return New(values, schema).
		Filter().
		Sort().
		LimitFields().
		Search().
		Paginate().
		Query()
}

// Query returns the query built so far.
func (b *Builder) Query() Query {
	return b.query
}

// Filter adds an equality or range condition for every non-reserved,
// non-hidden parameter.
func (b *Builder) Filter() *Builder {
	ranges := map[string]bson.M{}

	for key, vals := range b.params {
		vals = lo.Filter(vals, func(v string, _ int) bool { return v != "" })
		if len(vals) == 0 || isReserved(key) {
			continue
		}

		field, op, ok := splitKey(key)
		if !ok || isReserved(field) || b.schema.isHidden(field) {
			continue
		}

		if op == "" {
			if len(vals) > 1 {
				b.query.Filter[field] = bson.M{"$in": b.castAll(field, vals)}
			} else {
				b.query.Filter[field] = b.schema.cast(field, vals[0])
			}
			continue
		}

		mop, known := operators[op]
		if !known {
			continue
		}
		if ranges[field] == nil {
			ranges[field] = bson.M{}
		}
		if mop == "$in" {
			ranges[field][mop] = b.castAll(field, splitList(strings.Join(vals, ",")))
		} else {
			ranges[field][mop] = b.schema.cast(field, vals[len(vals)-1])
		}
	}

	for field, cond := range ranges {
		switch existing := b.query.Filter[field].(type) {
		case nil:
		case bson.M:
			for k, v := range existing {
				if _, set := cond[k]; !set {
					cond[k] = v
				}
			}
		default:
			cond["$eq"] = existing
		}
		b.query.Filter[field] = cond
	}
	return b
}

// Sort orders by the comma-separated sort parameter, ascending unless a field
// is prefixed with "-". Falls back to the schema default.
func (b *Builder) Sort() *Builder {
	raw := strings.TrimSpace(b.params.Get("sort"))
	if raw == "" {
		raw = b.schema.DefaultSort
	}

	var sort bson.D
	seen := map[string]bool{}
	for _, token := range splitList(raw) {
		dir := 1
		switch {
		case strings.HasPrefix(token, "-"):
			dir = -1
			token = token[1:]
		case strings.HasPrefix(token, "+"):
			token = token[1:]
		}
		if !fieldName.MatchString(token) || seen[token] || b.schema.isHidden(token) {
			continue
		}
		seen[token] = true
		sort = append(sort, bson.E{Key: token, Value: dir})
	}
	b.query.Sort = sort
	return b
}

// LimitFields projects the comma-separated fields parameter. Hidden fields are
// never returned.
func (b *Builder) LimitFields() *Builder {
	var include, exclude []string
	for _, token := range splitList(b.params.Get("fields")) {
		if strings.HasPrefix(token, "-") {
			if name := token[1:]; fieldName.MatchString(name) && !b.schema.isHidden(name) {
				exclude = append(exclude, name)
			}
			continue
		}
		if fieldName.MatchString(token) && !b.schema.isHidden(token) {
			include = append(include, token)
		}
	}

	proj := bson.M{}
	if len(include) > 0 {
		for _, f := range lo.Uniq(include) {
			proj[f] = 1
		}
	} else {
		for _, f := range lo.Uniq(append(exclude, b.schema.Hidden...)) {
			proj[f] = 0
		}
	}
	if len(proj) == 0 {
		proj = nil
	}
	b.query.Projection = proj
	return b
}

// Search adds a phrase match against the collection's text index.
func (b *Builder) Search() *Builder {
	phrase := strings.TrimSpace(strings.ReplaceAll(b.params.Get("search"), `"`, ""))
	if phrase == "" {
		return b
	}
	b.query.Filter["$text"] = bson.M{"$search": `"` + phrase + `"`}
	return b
}

// Paginate computes skip and limit from page (default 1) and limit (default 10).
func (b *Builder) Paginate() *Builder {
	limit := positive(b.params.Get("limit"), DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	page := positive(b.params.Get("page"), DefaultPage)
	if maxPage := math.MaxInt64/limit + 1; page > maxPage {
		page = maxPage
	}
	b.query.Skip = (page - 1) * limit
	b.query.Limit = limit
	return b
}

func (b *Builder) castAll(field string, vals []string) bson.A {
	out := make(bson.A, 0, len(vals))
	for _, v := range vals {
		out = append(out, b.schema.cast(field, v))
	}
	return out
}

func isReserved(key string) bool {
	return lo.Contains(reserved, key)
}

// splitKey separates "salary[gte]" into ("salary", "gte"). Plain keys return
// an empty operator. Keys that are not valid field paths are rejected, which
// also keeps "$" operators out of the filter.
func splitKey(key string) (field, op string, ok bool) {
	if m := bracketExpr.FindStringSubmatch(key); m != nil {
		field, op = m[1], m[2]
	} else {
		field = key
	}
	if !fieldName.MatchString(field) {
		return "", "", false
	}
	return field, op, true
}

func splitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	return lo.Filter(parts, func(s string, _ int) bool { return s != "" })
}

func positive(raw string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}
