package handlers

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/adcopy-backend/internal/platform/apierr"
)

// Limits bounds the example count a caller may request.
type Limits struct {
	Default int
	Max     int
}

func (l Limits) resolve(limit *int) (int, error) {
	maxLimit := l.Max
	if maxLimit <= 0 {
		maxLimit = 20
	}
	if limit == nil {
		if l.Default > 0 && l.Default <= maxLimit {
			return l.Default, nil
		}
		return min(5, maxLimit), nil
	}
	if *limit < 1 || *limit > maxLimit {
		return 0, apierr.Invalid("invalid_limit", "limit", fmt.Errorf("must be between 1 and %d", maxLimit))
	}
	return *limit, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.BadRequest("invalid_request", err)
	}
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apierr.Invalid("invalid_rating", "rating", errors.New("must be between 1 and 5"))
	}
	return nil
}

func validateRate(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 || *v > 1 {
		return apierr.Invalid("invalid_metric", name, errors.New("must be between 0 and 1"))
	}
	return nil
}

func requireText(code, name, v string) error {
	if strings.TrimSpace(v) == "" {
		return apierr.Invalid(code, name, errors.New("is required"))
	}
	return nil
}
