package edge

import (
	"fmt"
	"net/url"

	"github.com/deltahdl/driftgate/internal/errors"
)

// StatusMovedPermanently is the only redirect the edge function issues.
const StatusMovedPermanently = 301

// Rule is the redirect configuration baked in at deploy time. It never
// changes at runtime.
type Rule struct {
	TargetURL  string
	StatusCode int
}

func NewRule(targetURL string) (Rule, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return Rule{}, errors.Wrap(err, errors.CodeConfigValidation, "invalid redirect target URL")
	}
	if !u.IsAbs() || u.Host == "" {
		return Rule{}, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("redirect target %q must be an absolute URL", targetURL),
			"Use a full URL like https://github.com/deltahdl/deltahdl.")
	}
	return Rule{TargetURL: targetURL, StatusCode: StatusMovedPermanently}, nil
}
