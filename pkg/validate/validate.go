// Package validate checks bound request structs against `validate` tags.
//
// Rules are comma separated; list parameters use "|":
//
//	required         not zero or blank
//	nullable         skip the remaining rules when empty
//	email            address shape
//	alpha_dash       letters, digits, "-" and "_"
//	integer          whole number
//	money            positive amount with at most two decimals
//	date             calendar day as YYYY-MM-DD
//	clock            time of day as HH:MM
//	min=N / max=N    string length, or numeric value for number kinds
//	gt=N / gte=N     numeric lower bounds
//	in=a|b|c         one of the listed values
//	confirmed        equals the sibling <field>_confirmation
//
// Example:
//
//	type CheckoutInput struct {
//	    Date    string `json:"scheduled_date" validate:"required,date"`
//	    Payment string `json:"payment_method" validate:"required,in=balance|external"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Struct returns field name → first failing message. An empty map means
// the struct is valid.
func Struct(v interface{}) map[string]string {
	errs := map[string]string{}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		value := rv.Field(i)
		name := FieldName(field)
		rules := strings.Split(tag, ",")

		if contains(rules, "nullable") && isEmpty(value) {
			continue
		}
		for _, rule := range rules {
			if msg := check(strings.TrimSpace(rule), name, value, rv); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	clockRE = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

func check(rule, field string, v reflect.Value, parent reflect.Value) string {
	raw := strings.TrimSpace(fmt.Sprintf("%v", v.Interface()))
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "nullable", "":
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field)
			}
		}
	case "integer":
		if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Sprintf("The %s must be an integer.", field)
		}
	case "money":
		d, err := decimal.NewFromString(raw)
		if err != nil || !d.IsPositive() || !d.Equal(d.Round(2)) {
			return fmt.Sprintf("The %s must be a positive amount with at most two decimals.", field)
		}
	case "date":
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return fmt.Sprintf("The %s must be a date in YYYY-MM-DD format.", field)
		}
	case "clock":
		if _, err := time.Parse("15:04", raw); err != nil || !clockRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a time in HH:MM format.", field)
		}
	case "min", "max":
		n, _ := strconv.ParseFloat(param, 64)
		size, unit := measure(v, raw)
		if key == "min" && size < n {
			return fmt.Sprintf("The %s must be at least %s%s.", field, param, unit)
		}
		if key == "max" && size > n {
			return fmt.Sprintf("The %s must not exceed %s%s.", field, param, unit)
		}
	case "gt", "gte":
		n, _ := strconv.ParseFloat(param, 64)
		f, err := number(v, raw)
		if err != nil || (key == "gt" && f <= n) || (key == "gte" && f < n) {
			op := "greater than"
			if key == "gte" {
				op = "at least"
			}
			return fmt.Sprintf("The %s must be %s %s.", field, op, param)
		}
	case "in":
		if !contains(strings.Split(param, "|"), raw) {
			return fmt.Sprintf("The selected %s is invalid.", field)
		}
	case "confirmed":
		other, ok := sibling(parent, field+"_confirmation")
		if !ok || fmt.Sprintf("%v", other.Interface()) != fmt.Sprintf("%v", v.Interface()) {
			return fmt.Sprintf("The %s confirmation does not match.", field)
		}
	default:
		return fmt.Sprintf("The %s has an unknown rule %q.", field, key)
	}
	return ""
}

// measure returns the value used by min/max: numeric value for numbers,
// rune length for everything else.
func measure(v reflect.Value, raw string) (float64, string) {
	if f, ok := numericKind(v); ok {
		return f, ""
	}
	return float64(len([]rune(raw))), " characters"
}

func number(v reflect.Value, raw string) (float64, error) {
	if f, ok := numericKind(v); ok {
		return f, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func numericKind(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	}
	return v.IsZero()
}

func sibling(parent reflect.Value, name string) (reflect.Value, bool) {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if FieldName(rt.Field(i)) == name {
			return parent.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// FieldName is the json name of f, or its lower-cased Go name.
func FieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if strings.TrimSpace(item) == s {
			return true
		}
	}
	return false
}
