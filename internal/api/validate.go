package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

var validate = validator.New()

// Construction runs outside the time budget and is quadratic in the corral
// count; at maxCorrals it takes tens of milliseconds.
const (
	maxCorrals      = 2000
	maxTimeBudgetMs = 60_000
)

// validateStruct runs the struct tags and flattens failures into one message.
func validateStruct(v any) error {
	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// validateOptimizeRouteRequest enforces transport limits. Routing rules such
// as empty input and unknown depots are left to the planner so the response
// carries a reason code.
func validateOptimizeRouteRequest(req *model.OptimizeRouteRequest) error {
	if req.Corrals.Len() > maxCorrals {
		return fmt.Errorf("at most %d corrals per request, got %d", maxCorrals, req.Corrals.Len())
	}
	if req.TimeBudgetMs > maxTimeBudgetMs {
		return fmt.Errorf("timeBudgetMs must be <= %d", maxTimeBudgetMs)
	}
	for _, id := range req.Corrals.IDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("corral ids must not be blank")
		}
		if c := req.Corrals.ByID[id].Count; c != nil && *c < 0 {
			return fmt.Errorf("corrals[%q].count must be >= 0", id)
		}
	}
	return nil
}
