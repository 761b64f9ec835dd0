package usersdk

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input locations used in ValidationDetail.Loc.
const (
	LocBody  = "body"
	LocQuery = "query"
	LocPath  = "path"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the request against its validate tags. It returns nil when
// the request is acceptable.
func (r UserCreateRequest) Validate() []ValidationDetail {
	return ValidateStruct(LocBody, r)
}

// Validate checks the paging parameters.
func (p ListUsersParams) Validate() []ValidationDetail {
	return ValidateStruct(LocQuery, p)
}

// ValidateStruct validates v and reports each failing field under loc.
func ValidateStruct(loc string, v any) []ValidationDetail {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationDetail{{Loc: []string{loc}, Msg: err.Error(), Type: "value_error"}}
	}

	out := make([]ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationDetail{
			Loc:  []string{loc, fe.Field()},
			Msg:  fieldMessage(fe),
			Type: fe.Tag(),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return "must be at most " + param
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return "must be at least " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
