package metrics

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

// Collectors are shared by the HTTP, infrastructure and core layers, so none of
// the lower layers may depend on the HTTP packages to reach them.
func TestLowerLayersDoNotImportHTTP(t *testing.T) {
	const httpLayer = "github.com/jobbee/jobboard-api/internal/api"

	for _, root := range []string{"../../core", "../../infrastructure", ".."} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".go") {
				return nil
			}
			f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
			if err != nil {
				return err
			}
			for _, imp := range f.Imports {
				p := strings.Trim(imp.Path.Value, `"`)
				if p == httpLayer || strings.HasPrefix(p, httpLayer+"/") {
					t.Errorf("%s imports %s", path, p)
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("walk %s: %v", root, err)
		}
	}
}

func TestCollectorsAcceptTheirLabels(t *testing.T) {
	JobsCreatedTotal.WithLabelValues("Permanent").Inc()
	ApplicationsTotal.WithLabelValues("accepted").Inc()
	GeocodeCacheTotal.WithLabelValues("memory", "hit").Inc()
}
