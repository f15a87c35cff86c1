package restvalidation

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"

	"github.com/Gobd/restvalidation/apierror"
	"github.com/Gobd/restvalidation/pathconv"
	"github.com/Gobd/restvalidation/violation"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validator produces the raw violations of an entity in the order they were
// found. An error is returned only when validation itself could not run,
// for example because a rule points at a field outside its struct.
type Validator interface {
	Validate(ctx context.Context, entity any) (violation.ConstraintList, error)
}

// ValidateEntity validates entity with v and converts every violation path
// with c. It returns nil when there are no violations, an
// *[apierror.Exception] when there are, and the validator's own error
// unchanged when validation could not run.
func ValidateEntity(ctx context.Context, v Validator, entity any, c pathconv.Converter) error {
	raw, err := v.Validate(ctx, entity)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return apierror.FromViolations(violation.Translate(raw, c))
}

// Validate validates value with a [RuleValidator], keeping raw field names.
func Validate(value any) error {
	return ValidateCtx(context.Background(), value)
}

// ValidateCtx is like Validate but passes a context to ContextRuler.Rules().
func ValidateCtx(ctx context.Context, value any) error {
	return ValidateEntity(ctx, NewRuleValidator(), value, pathconv.NoOp{})
}

// DecodeAndValidate reads JSON from r into dst, normalizes it and validates it,
// converting violation paths with c. Malformed JSON yields an invalid_request
// exception.
func DecodeAndValidate(ctx context.Context, r io.Reader, dst any, c pathconv.Converter) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return apierror.InvalidRequest("Malformed request body", err)
	}
	normalizeRecursive(ctx, dst)
	return ValidateEntity(ctx, NewRuleValidator(), dst, c)
}

// RuleValidator validates entities that declare their rules through [Ruler],
// [ContextRuler] or [ValueRuler] using ozzo-validation rules.
//
// Fields are visited in declaration order and every failing rule of a field
// is reported. Nested rulers in struct fields, slices, arrays and maps are
// validated too, with paths such as "address.streetName", "items[1].name" and
// "limits[daily]"; map keys are visited in sorted order.
type RuleValidator struct{}

// NewRuleValidator returns a RuleValidator. It is stateless and safe for concurrent use.
func NewRuleValidator() *RuleValidator {
	return &RuleValidator{}
}

// Validate implements [Validator].
func (v *RuleValidator) Validate(ctx context.Context, entity any) (violation.ConstraintList, error) {
	w := &ruleWalker{ctx: ctx}
	if err := w.walk("", entity); err != nil {
		return nil, err
	}
	return w.found, nil
}

type ruleWalker struct {
	ctx   context.Context
	found violation.ConstraintList
}

func (w *ruleWalker) add(path, message string, value any) {
	w.found = append(w.found, violation.Constraint{Path: path, Message: message, InvalidValue: value})
}

func (w *ruleWalker) walk(path string, value any) error {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}

	if structPtr, fields, ok := rulesOf(w.ctx, value); ok {
		return w.walkStruct(path, structPtr, fields)
	}
	if vr, ok := value.(ValueRuler); ok {
		return w.apply(path, value, vr.ValueRules())
	}

	rv = reflect.Indirect(rv)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if !shouldAutoValidate(rv.Type().Elem()) {
			return nil
		}
		for i := range rv.Len() {
			if err := w.walk(indexPath(path, strconv.Itoa(i)), elementValue(rv.Index(i))); err != nil {
				return err
			}
		}
	case reflect.Map:
		if !shouldAutoValidate(rv.Type().Elem()) {
			return nil
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})
		for _, key := range keys {
			if err := w.walk(indexPath(path, fmt.Sprint(key.Interface())), rv.MapIndex(key).Interface()); err != nil {
				return err
			}
		}
	case reflect.Interface:
		return w.walk(path, rv.Elem().Interface())
	}
	return nil
}

func (w *ruleWalker) walkStruct(path string, structPtr any, fields []*FieldRules) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	for i, fr := range expandFields(w.ctx, structPtr, fields) {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			return fmt.Errorf("rule target for field index %d must be a non-nil pointer, got %s", i, fv.Kind())
		}
		sf := findStructField(structVal, fv)
		if sf == nil {
			return fmt.Errorf("rule target for field index %d not found in struct %s", i, structVal.Type())
		}

		fieldPath := joinPath(path, fieldName(*sf))
		value := fv.Elem().Interface()
		if err := w.apply(fieldPath, value, fr.rules); err != nil {
			return err
		}
		if err := w.walk(fieldPath, value); err != nil {
			return err
		}
	}
	return nil
}

// apply runs every rule against value and records each failure under path.
func (w *ruleWalker) apply(path string, value any, rules []Rule) error {
	for _, rule := range rules {
		err := rule.Validate(value)
		if err == nil {
			continue
		}
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return fmt.Errorf("validating %q: %w", path, err)
		}
		var errs validation.Errors
		if errors.As(err, &errs) {
			w.addErrors(path, errs)
			continue
		}
		w.add(path, err.Error(), value)
	}
	return nil
}

// addErrors records per-element failures returned by [Each], keyed by
// element index or map key.
func (w *ruleWalker) addErrors(path string, errs validation.Errors) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)

	for _, k := range keys {
		sub := indexPath(path, k)
		var nested validation.Errors
		if errors.As(errs[k], &nested) {
			w.addErrors(sub, nested)
			continue
		}
		w.add(sub, errs[k].Error(), nil)
	}
}

// compareKeys orders numeric keys numerically and everything else lexically.
func compareKeys(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return cmp.Compare(ai, bi)
	}
	return cmp.Compare(a, b)
}

// elementValue returns a pointer to addressable elements so pointer-receiver
// rulers are found.
func elementValue(v reflect.Value) any {
	if v.Kind() == reflect.Struct && v.CanAddr() {
		return v.Addr().Interface()
	}
	return v.Interface()
}

// shouldAutoValidate checks if elements of the given type can carry rules.
// Recurses into nested collections (e.g. map[string][]Ruler).
func shouldAutoValidate(elemType reflect.Type) bool {
	if elemType.Kind() == reflect.Interface {
		return true
	}
	ptr := reflect.New(elemType).Interface()
	if _, ok := ptr.(Ruler); ok {
		return true
	}
	if _, ok := ptr.(ContextRuler); ok {
		return true
	}
	if _, ok := reflect.Zero(elemType).Interface().(ValueRuler); ok {
		return true
	}
	switch elemType.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Map:
		return shouldAutoValidate(elemType.Elem())
	}
	return false
}
