package reclaimer

import (
	"context"
	"fmt"

	"github.com/elC0mpa/ebs-reclaimer/model"
)

// paginate calls fetch until it returns an empty continuation token.
// A token seen twice would loop forever, so it is treated as a provider error.
func paginate(ctx context.Context, fetch func(ctx context.Context, token string) (string, error)) error {
	seen := make(map[string]struct{})
	token := ""

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := fetch(ctx, token)
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		if _, dup := seen[next]; dup {
			return fmt.Errorf("%w: %q", model.ErrDuplicatePageToken, next)
		}

		seen[next] = struct{}{}
		token = next
	}
}
