// Package registration implements the camper registration flow: a record is
// created from a full or partial submission and completed by later partial
// submissions until every field is present, at which point it is enrolled.
package registration

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"campuslands/models"
	"campuslands/storage"
	"campuslands/validation"
)

// Engine validates submissions and persists the resulting campers.
type Engine struct {
	store    storage.Store
	validate *validation.Validator
	log      logrus.FieldLogger
}

func NewEngine(store storage.Store, v *validation.Validator, log logrus.FieldLogger) *Engine {
	return &Engine{store: store, validate: v, log: log}
}

func (e *Engine) List(ctx context.Context) ([]models.Camper, error) {
	campers, err := e.store.List(ctx)
	if err != nil {
		e.log.WithError(err).Error("list campers")
		return nil, storeFailure(err)
	}
	return campers, nil
}

func (e *Engine) Count(ctx context.Context) (int, error) {
	total, err := e.store.Count(ctx)
	if err != nil {
		e.log.WithError(err).Error("count campers")
		return 0, storeFailure(err)
	}
	return total, nil
}

// Get fetches a camper of any status. rawID is a path segment or a decoded
// body value; it must coerce to a positive integer.
func (e *Engine) Get(ctx context.Context, rawID any) (*models.Camper, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	c, err := e.store.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		e.log.WithError(err).WithField("camper_id", id).Error("get camper")
		return nil, storeFailure(err)
	}
	return c, nil
}

func parseID(rawID any) (int, error) {
	if rawID == nil {
		return 0, invalid(KindInvalidID, "id", "falta 'id'")
	}
	id, ok := validation.PositiveID(rawID)
	if !ok {
		return 0, invalid(KindInvalidID, "id", "'id' no numérico positivo")
	}
	return id, nil
}

// guardianObject checks that a submitted acudiente is a JSON object and
// returns it cleaned of null values.
func guardianObject(value any) (map[string]any, error) {
	g, ok := value.(map[string]any)
	if !ok {
		return nil, invalid(KindInvalidFieldType, validation.KeyGuardian, "'acudiente' de tipo no plain object")
	}
	return validation.Clean(g), nil
}

func (e *Engine) checkFields(body map[string]any) error {
	if fe := validation.First(e.validate.Camper(body)); fe != nil {
		return fromField(fe)
	}
	return nil
}

func (e *Engine) checkGuardian(guardian map[string]any, allowed []string) error {
	if !validation.OnlyAllowedKeys(guardian, allowed) {
		return invalid(KindUnknownField, validation.KeyGuardian,
			"claves no permitidas en 'acudiente': "+strings.Join(validation.UnknownKeys(guardian, allowed), ", "))
	}
	if fe := validation.First(e.validate.Guardian(guardian)); fe != nil {
		return fromField(fe)
	}
	return nil
}

// text returns the validated string at key, trimmed unless the field must
// match exactly, or nil when absent.
func text(obj map[string]any, key string, trim bool) *string {
	v, ok := obj[key].(string)
	if !ok {
		return nil
	}
	if trim {
		v = strings.TrimSpace(v)
	}
	return &v
}

func integer(obj map[string]any, key string) *int {
	n, ok := validation.Integer(obj[key])
	if !ok {
		return nil
	}
	return &n
}
