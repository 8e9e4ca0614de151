package listing

import (
	"context"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: however pages overlap, the loaded list never holds an id twice
// and holds every id any page returned.
func TestLoaderNoDuplicatesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	const limit = 4

	properties.Property("ids are unique and complete", prop.ForAll(
		func(raw [][]int) bool {
			pages := make([][]item, len(raw))
			want := map[string]bool{}
			for i, p := range raw {
				for _, n := range p {
					id := strconv.Itoa(n)
					pages[i] = append(pages[i], item{ID: id})
				}
			}
			l := New(pagesOf(pages...), itemID, limit)
			for i := 0; i <= len(pages) && l.HasMore(); i++ {
				page := l.page
				if err := l.LoadMore(context.Background()); err != nil {
					return false
				}
				if page <= len(pages) {
					for _, it := range pages[page-1] {
						want[it.ID] = true
					}
				}
			}
			got := map[string]bool{}
			for _, it := range l.Items() {
				if got[it.ID] {
					return false
				}
				got[it.ID] = true
			}
			for id := range want {
				if !got[id] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.SliceOfN(limit, gen.IntRange(0, 12))),
	))

	properties.TestingRun(t)
}
