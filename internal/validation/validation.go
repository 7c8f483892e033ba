// Package validation holds the request rules checked before a product handler runs.
//
// A Rule inspects one field of a request and reports zero or one error. Rule sets are
// plain slices evaluated in order; every rule runs even when an earlier rule on the same
// field already failed, so one field can contribute several entries.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Locations reported in ValidationError.Location.
const (
	LocationParams = "params"
	LocationBody   = "body"
)

// ValidationError is a single rule violation.
type ValidationError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// Request is the part of an HTTP request the rules can see.
type Request struct {
	Params map[string]string
	Body   map[string]any
}

// Rule checks a request and returns the violations it found.
type Rule func(req Request) []ValidationError

// Run evaluates rules in order and concatenates their violations.
func Run(req Request, rules ...Rule) []ValidationError {
	var errs []ValidationError
	for _, rule := range rules {
		errs = append(errs, rule(req)...)
	}
	return errs
}

var (
	intPattern     = regexp.MustCompile(`^[-+]?(0|[1-9][0-9]*)$`)
	numericPattern = regexp.MustCompile(`^[+-]?([0-9]*[.])?[0-9]+$`)

	validate = newValidator()
)

// newValidator adds the int_string and decimal_string tags to the built-in ones.
// Unlike numeric, decimal_string accepts ".5".
func newValidator() *validator.Validate {
	v := validator.New()
	must := func(tag string, pattern *regexp.Regexp) {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(err)
		}
	}
	must("int_string", intPattern)
	must("decimal_string", numericPattern)
	return v
}

// Predicate reports whether a field value passes a check.
type Predicate func(value any, present bool) bool

// Param builds a rule over the path parameter name.
func Param(name string, check Predicate, msg string) Rule {
	return func(req Request) []ValidationError {
		value, present := req.Params[name]
		if check(value, present) {
			return nil
		}
		return []ValidationError{{Type: "field", Value: value, Msg: msg, Path: name, Location: LocationParams}}
	}
}

// Body builds a rule over the body field name.
func Body(name string, check Predicate, msg string) Rule {
	return func(req Request) []ValidationError {
		value, present := req.Body[name]
		if present && value == nil {
			present = false
		}
		if check(value, present) {
			return nil
		}
		return []ValidationError{{Type: "field", Value: value, Msg: msg, Path: name, Location: LocationBody}}
	}
}

// IsInt accepts an optionally signed base-10 integer without leading zeros.
// There is no upper bound.
func IsInt(value any, present bool) bool {
	if !present {
		return false
	}
	return validate.Var(Stringify(value), "required,int_string") == nil
}

// NotEmpty accepts any value whose string form is non-empty.
func NotEmpty(value any, present bool) bool {
	if !present {
		return false
	}
	return validate.Var(Stringify(value), "required") == nil
}

// IsNumeric accepts values whose string form is a signed decimal number.
func IsNumeric(value any, present bool) bool {
	if !present {
		return false
	}
	return validate.Var(Stringify(value), "required,decimal_string") == nil
}

// IsBoolean accepts true, false, 1 and 0, as JSON values or strings.
func IsBoolean(value any, present bool) bool {
	if !present {
		return false
	}
	return validate.Var(Stringify(value), "required,oneof=true false 1 0") == nil
}

// GreaterThanZero compares numbers directly and parses strings as decimals.
func GreaterThanZero(value any, present bool) bool {
	if !present {
		return false
	}
	d, ok := ToDecimal(value)
	return ok && d.IsPositive()
}

// ToDecimal converts a JSON value to a decimal. Blank strings count as zero
// and true as one.
func ToDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case bool:
		if v {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, true
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// ToBool converts a value accepted by IsBoolean.
func ToBool(value any) bool {
	s := Stringify(value)
	return s == "true" || s == "1"
}

// Stringify renders a decoded JSON value the way the rules compare it.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}
