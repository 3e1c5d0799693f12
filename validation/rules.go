// Package validation holds the registration field rules and the key-set
// helpers used to decide which fields a submission may carry.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Wire keys of a camper submission.
const (
	KeyFirstNames = "nombres"
	KeyLastNames  = "apellidos"
	KeyAddress    = "direccion"
	KeyPhone      = "telefono"
	KeyGuardian   = "acudiente"
	KeyShift      = "jornada"
)

var (
	// CamperKeys is the full top-level key set of a finished registration.
	CamperKeys = []string{KeyFirstNames, KeyLastNames, KeyAddress, KeyPhone, KeyGuardian, KeyShift}
	// GuardianKeys is the full key set of a finished acudiente.
	GuardianKeys = []string{KeyFirstNames, KeyLastNames, KeyPhone}
)

const letters = `[a-zA-ZáéíóúÁÉÍÓÚñÑ]+`

var (
	namesPattern    = regexp.MustCompile(`^` + letters + `( ` + letters + `)?$`)
	surnamesPattern = regexp.MustCompile(`^` + letters + ` ` + letters + `$`)
	phonePattern    = regexp.MustCompile(`^3[0-9]{9}$`)
)

// Result is the outcome of validating one field value.
type Result int

const (
	Valid Result = iota
	WrongType
	BadFormat
)

func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case WrongType:
		return "wrong_type"
	case BadFormat:
		return "bad_format"
	default:
		return "unknown"
	}
}

type valueKind int

const (
	kindString valueKind = iota
	kindInteger
)

// Rule describes how one field is checked: the JSON type it must have, the
// validator tag applied to it and the messages reported on failure.
type Rule struct {
	Key           string
	kind          valueKind
	tag           string
	trim          bool
	formatMessage string
}

var camperRules = []Rule{
	{Key: KeyFirstNames, kind: kindString, tag: "nombres", trim: true, formatMessage: "número de palabras superior a 2 en '%s'/campo '%s' vacío"},
	{Key: KeyLastNames, kind: kindString, tag: "apellidos", trim: true, formatMessage: "número de palabras diferente de 2 en '%s'"},
	{Key: KeyAddress, kind: kindString, tag: "required", trim: true, formatMessage: "'%s' vacía"},
	{Key: KeyPhone, kind: kindString, tag: "telefono_co", formatMessage: "formato inválido en '%s'"},
	{Key: KeyShift, kind: kindInteger, tag: "min=1,max=4", formatMessage: "'%s' inválida (válidas: 1, 2, 3, 4)"},
}

var guardianRules = []Rule{camperRules[0], camperRules[1], camperRules[3]}

// FieldError is a single rule violation. Field is the full path of the
// offending key, e.g. "acudiente.telefono".
type FieldError struct {
	Field  string
	Result Result
	msg    string
}

func (e *FieldError) Error() string {
	return "solicitud inválida (" + e.msg + ")"
}

// Validator checks submission values against the field rules.
type Validator struct {
	v     *validator.Validate
	rules map[string]Rule
}

// New returns a Validator with the registration tags registered.
func New() *Validator {
	v := validator.New()
	mustRegister(v, "nombres", namesPattern)
	mustRegister(v, "apellidos", surnamesPattern)
	mustRegister(v, "telefono_co", phonePattern)

	rules := make(map[string]Rule, len(camperRules)+len(guardianRules))
	for _, r := range camperRules {
		rules[r.Key] = r
	}
	for _, r := range guardianRules {
		rules[KeyGuardian+"."+r.Key] = r
	}
	return &Validator{v: v, rules: rules}
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(errors.Wrapf(err, "register %q", tag))
	}
}

// Validate checks a single value. field is a top-level key or a guardian key
// prefixed with "acudiente.". Absent values are always Valid: whether a field
// is required is decided by the registration engine.
func (v *Validator) Validate(field string, value any) Result {
	rule, ok := v.rules[field]
	if !ok {
		return Valid
	}
	res, _ := v.check(rule, field, value)
	return res
}

func (v *Validator) check(rule Rule, path string, value any) (Result, *FieldError) {
	if value == nil {
		return Valid, nil
	}
	switch rule.kind {
	case kindString:
		s, ok := value.(string)
		if !ok {
			return WrongType, &FieldError{Field: path, Result: WrongType, msg: fmt.Sprintf("'%s' de tipo no string", path)}
		}
		if rule.trim {
			s = strings.TrimSpace(s)
		}
		if err := v.v.Var(s, rule.tag); err != nil {
			return BadFormat, &FieldError{Field: path, Result: BadFormat, msg: formatMessage(rule, path)}
		}
	case kindInteger:
		n, ok := Integer(value)
		if !ok {
			return WrongType, &FieldError{Field: path, Result: WrongType, msg: fmt.Sprintf("'%s' de tipo no entero", path)}
		}
		if err := v.v.Var(n, rule.tag); err != nil {
			return BadFormat, &FieldError{Field: path, Result: BadFormat, msg: formatMessage(rule, path)}
		}
	}
	return Valid, nil
}

func formatMessage(rule Rule, path string) string {
	args := make([]any, strings.Count(rule.formatMessage, "%s"))
	for i := range args {
		args[i] = path
	}
	return fmt.Sprintf(rule.formatMessage, args...)
}

// Camper validates the present top-level scalar fields of obj in rule order
// and returns every violation as a multierror, or nil.
func (v *Validator) Camper(obj map[string]any) error {
	return v.all(camperRules, "", obj)
}

// Guardian validates the present acudiente fields of obj.
func (v *Validator) Guardian(obj map[string]any) error {
	return v.all(guardianRules, KeyGuardian+".", obj)
}

func (v *Validator) all(rules []Rule, prefix string, obj map[string]any) error {
	var result *multierror.Error
	for _, rule := range rules {
		if _, fe := v.check(rule, prefix+rule.Key, obj[rule.Key]); fe != nil {
			result = multierror.Append(result, fe)
		}
	}
	return result.ErrorOrNil()
}

// First returns the first FieldError carried by err, or nil.
func First(err error) *FieldError {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			if fe := First(e); fe != nil {
				return fe
			}
		}
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// Integer converts a decoded JSON value to an int when it holds an integral
// number. Strings are not coerced.
func Integer(value any) (int, bool) {
	switch n := value.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case float64:
		return integral(n)
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func integral(f float64) (int, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if math.Abs(f) > maxExactInt {
		return 0, false
	}
	return int(f), true
}

// maxExactInt is the largest magnitude up to which every float64 integer is
// exact.
const maxExactInt = 1 << 53

// PositiveID coerces a path parameter or body value into a record id. Numeric
// strings are accepted; anything that is not an integer >= 1 is rejected.
func PositiveID(value any) (int, bool) {
	var (
		id int
		ok bool
	)
	switch s := value.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		id, ok = integral(f)
	default:
		id, ok = Integer(value)
	}
	if !ok || id < 1 {
		return 0, false
	}
	return id, true
}
