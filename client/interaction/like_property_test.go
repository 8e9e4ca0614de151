package interaction

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"devlink/client/backend"
)

// Property: any number of failed toggles leaves the like state exactly as
// it was before the first click.
func TestLikeNoDriftProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("failed toggles never drift", prop.ForAll(
		func(liked bool, count int, clicks int, rejectInstead bool) bool {
			initial := LikeState{Liked: liked, Count: count}
			send := likeReturning(nil, errors.New("offline"))
			if rejectInstead {
				send = likeReturning(&backend.LikeResult{Action: "error"}, nil)
			}
			l := NewLike(initial, send, nil)
			for i := 0; i < clicks; i++ {
				if s, err := l.Toggle(context.Background()); err == nil || s != initial {
					return false
				}
			}
			return l.State() == initial
		},
		gen.Bool(),
		gen.IntRange(0, 1000),
		gen.IntRange(1, 10),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
