package mapper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/govalidator"
)

var tagValidator = govalidator.New()

// validateTags runs the `validate` struct tag checks of one model; nested models are
// validated when they are decoded.
func validateTags(ctx context.Context, model any) error {
	ret, err := tagValidator.Validate(ctx, model, govalidator.WithShallow(true))
	if err != nil {
		return err
	}

	if ret == nil || len(ret.Violations) == 0 {
		return nil
	}

	messages := make([]string, 0, len(ret.Violations))
	for _, v := range ret.Violations {
		messages = append(messages, fmt.Sprintf("%s: %s", v.Location, v.Message))
	}

	return errors.New(strings.Join(messages, "; "))
}
