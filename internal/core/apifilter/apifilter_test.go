package apifilter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testSchema = Schema{
	Fields: map[string]Kind{
		"salary":      Number,
		"positions":   Number,
		"postingDate": Date,
		"user":        ObjectID,
		"remote":      Bool,
	},
	Hidden:      []string{"applicantsApplied"},
	DefaultSort: "-postingDate",
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func TestBuild_ReservedKeysNeverFilter(t *testing.T) {
	q := Build(mustQuery(t, "sort=salary&fields=title&search=go&page=2&limit=5"), testSchema)

	for _, k := range reserved {
		assert.NotContains(t, q.Filter, k)
	}
	assert.Equal(t, bson.M{"$text": bson.M{"$search": `"go"`}}, q.Filter)
}

func TestFilter_RangeOperators(t *testing.T) {
	q := New(mustQuery(t, "salary[gte]=50000&salary[lt]=90000&jobType=Permanent"), testSchema).
		Filter().
		Query()

	assert.Equal(t, bson.M{"$gte": 50000.0, "$lt": 90000.0}, q.Filter["salary"])
	assert.Equal(t, "Permanent", q.Filter["jobType"])
}

func TestFilter_DropsUnknownOperatorsAndDollarKeys(t *testing.T) {
	values := url.Values{
		"salary[regex]": {".*"},
		"$where":        {"sleep(1000)"},
		"title[$ne]":    {"x"},
		"a]b[":          {"1"},
		"positions":     {"2"},
	}
	q := New(values, testSchema).Filter().Query()

	assert.Equal(t, bson.M{"positions": 2.0}, q.Filter)
}

func TestFilter_SkipsHiddenFields(t *testing.T) {
	q := New(mustQuery(t, "applicantsApplied.id=u1&applicantsApplied[in]=a,b&applicantsApplied.resume[gte]=a&positions=1"), testSchema).
		Filter().
		Query()

	assert.Equal(t, bson.M{"positions": 1.0}, q.Filter)
}

func TestSort_SkipsHiddenFields(t *testing.T) {
	q := New(mustQuery(t, "sort=-applicantsApplied.resume,salary"), testSchema).Sort().Query()

	assert.Equal(t, bson.D{{Key: "salary", Value: 1}}, q.Sort)
}

func TestFilter_RepeatedKeysBecomeIn(t *testing.T) {
	q := New(mustQuery(t, "industry=Business&industry=Banking"), testSchema).Filter().Query()

	assert.Equal(t, bson.M{"$in": bson.A{"Business", "Banking"}}, q.Filter["industry"])
}

func TestFilter_InOperatorSplitsCommas(t *testing.T) {
	q := New(mustQuery(t, "positions[in]=1,3"), testSchema).Filter().Query()

	assert.Equal(t, bson.M{"$in": bson.A{1.0, 3.0}}, q.Filter["positions"])
}

func TestFilter_CastsBySchemaKind(t *testing.T) {
	oid := primitive.NewObjectID()
	q := New(mustQuery(t, "postingDate[gte]=2024-01-15&user="+oid.Hex()+"&remote=true&salary=lots"), testSchema).
		Filter().
		Query()

	assert.Equal(t, bson.M{"$gte": time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}, q.Filter["postingDate"])
	assert.Equal(t, oid, q.Filter["user"])
	assert.Equal(t, true, q.Filter["remote"])
	assert.Equal(t, "lots", q.Filter["salary"])
}

func TestSort(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bson.D
	}{
		{"default", "", bson.D{{Key: "postingDate", Value: -1}}},
		{"ascending", "sort=salary", bson.D{{Key: "salary", Value: 1}}},
		{"mixed", "sort=-salary,title", bson.D{{Key: "salary", Value: -1}, {Key: "title", Value: 1}}},
		{"drops invalid", "sort=$natural,title", bson.D{{Key: "title", Value: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New(mustQuery(t, tt.raw), testSchema).Sort().Query()
			assert.Equal(t, tt.want, q.Sort)
		})
	}
}

func TestLimitFields(t *testing.T) {
	t.Run("default hides hidden fields", func(t *testing.T) {
		q := New(url.Values{}, testSchema).LimitFields().Query()
		assert.Equal(t, bson.M{"applicantsApplied": 0}, q.Projection)
	})

	t.Run("inclusion never exposes hidden fields", func(t *testing.T) {
		q := New(mustQuery(t, "fields=title,salary,applicantsApplied"), testSchema).LimitFields().Query()
		assert.Equal(t, bson.M{"title": 1, "salary": 1}, q.Projection)
	})

	t.Run("inclusion never exposes paths inside hidden fields", func(t *testing.T) {
		q := New(mustQuery(t, "fields=title,applicantsApplied.resume,applicantsApplied.id"), testSchema).
			LimitFields().
			Query()
		assert.Equal(t, bson.M{"title": 1}, q.Projection)
	})

	t.Run("only hidden paths requested falls back to default", func(t *testing.T) {
		q := New(mustQuery(t, "fields=applicantsApplied.resume"), testSchema).LimitFields().Query()
		assert.Equal(t, bson.M{"applicantsApplied": 0}, q.Projection)
	})

	t.Run("excluding a hidden path does not collide with the hidden parent", func(t *testing.T) {
		q := New(mustQuery(t, "fields=-applicantsApplied.resume,-salary"), testSchema).LimitFields().Query()
		assert.Equal(t, bson.M{"salary": 0, "applicantsApplied": 0}, q.Projection)
	})

	t.Run("exclusion keeps hidden excluded", func(t *testing.T) {
		q := New(mustQuery(t, "fields=-description"), testSchema).LimitFields().Query()
		assert.Equal(t, bson.M{"description": 0, "applicantsApplied": 0}, q.Projection)
	})
}

func TestSearch_PhraseMatch(t *testing.T) {
	q := New(mustQuery(t, `search=node+"developer"`), testSchema).Search().Query()

	assert.Equal(t, bson.M{"$search": `"node developer"`}, q.Filter["$text"])
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantSkip  int64
		wantLimit int64
	}{
		{"defaults", "", 0, DefaultLimit},
		{"second page", "page=2&limit=10", 10, 10},
		{"garbage falls back", "page=abc&limit=-3", 0, DefaultLimit},
		{"limit capped", "limit=5000", 0, MaxLimit},
		{"far page", "page=1000&limit=5", 4995, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New(mustQuery(t, tt.raw), testSchema).Paginate().Query()
			assert.Equal(t, tt.wantSkip, q.Skip)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestNew_DoesNotMutateInput(t *testing.T) {
	values := mustQuery(t, "salary[gte]=100&sort=-salary&page=3")
	before := url.Values{}
	for k, v := range values {
		before[k] = append([]string(nil), v...)
	}

	_ = Build(values, testSchema)

	assert.Equal(t, before, values)
}

func TestQuery_FindOptions(t *testing.T) {
	q := Build(mustQuery(t, "page=3&limit=20&sort=title"), testSchema)
	opts := q.FindOptions()

	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(40), *opts.Skip)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "title", Value: 1}}, opts.Sort)
}
