package service

import "github.com/jobbee/jobboard-api/internal/core/apifilter"

// JobQuerySchema drives query-string filtering on GET /jobs.
var JobQuerySchema = apifilter.Schema{
	Fields: map[string]apifilter.Kind{
		"salary":      apifilter.Number,
		"positions":   apifilter.Number,
		"postingDate": apifilter.Date,
		"lastDate":    apifilter.Date,
		"user":        apifilter.ObjectID,
		"_id":         apifilter.ObjectID,
	},
	Hidden:      []string{"applicantsApplied"},
	DefaultSort: "-postingDate",
}

// UserQuerySchema drives query-string filtering on GET /users.
var UserQuerySchema = apifilter.Schema{
	Fields: map[string]apifilter.Kind{
		"createdAt": apifilter.Date,
		"_id":       apifilter.ObjectID,
	},
	Hidden:      []string{"password"},
	DefaultSort: "-createdAt",
}
