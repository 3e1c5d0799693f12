package registration

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"campuslands/models"
	"campuslands/storage"
	"campuslands/validation"
)

// Continue completes a pending camper with more fields. Only fields still
// missing on the stored record are accepted; the acudiente stays open until
// its three fields are present, and an already set acudiente field is never
// overwritten. The camper is enrolled once nothing is missing. Enrolled
// campers are not found by this operation.
func (e *Engine) Continue(ctx context.Context, submission map[string]any) (*models.Camper, error) {
	id, err := parseID(submission["id"])
	if err != nil {
		return nil, err
	}

	c, err := e.store.GetPending(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		e.log.WithError(err).WithField("camper_id", id).Error("get pending camper")
		return nil, storeFailure(err)
	}

	changes := validation.Clean(submission)
	delete(changes, "id")
	if len(changes) == 0 {
		return nil, invalid(KindInsufficientData, "", "datos insuficientes en el cuerpo")
	}

	missing := validation.Missing(validation.CamperKeys, c.Keys())
	if !c.Guardian.Complete() {
		missing = append(missing, validation.KeyGuardian)
	}
	if !validation.OnlyAllowedKeys(changes, missing) {
		return nil, invalid(KindUnknownField, "",
			"claves no permitidas en el cuerpo: "+strings.Join(validation.UnknownKeys(changes, missing), ", "))
	}
	if err := e.checkFields(changes); err != nil {
		return nil, err
	}

	var guardian map[string]any
	if raw, ok := changes[validation.KeyGuardian]; ok {
		g, err := guardianObject(raw)
		if err != nil {
			return nil, err
		}
		if err := e.checkGuardian(g, validation.Missing(validation.GuardianKeys, c.Guardian.Keys())); err != nil {
			return nil, err
		}
		guardian = g
	}

	merge(c, changes, guardian)
	if c.Complete() {
		c.Status = models.StatusEnrolled
	}

	if err := e.store.Replace(ctx, c); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return nil, &Error{Kind: KindConflict, Message: "conflicto (camper modificado por otra solicitud, reintentar)", Err: err}
		case errors.Is(err, storage.ErrNotFound):
			return nil, errNotFound
		}
		e.log.WithError(err).WithField("camper_id", id).Error("replace camper")
		return nil, storeFailure(err)
	}

	entry := e.log.WithField("camper_id", c.ID).WithField("estado", c.Status)
	if c.Status == models.StatusEnrolled {
		entry.Info("camper enrolled")
	} else {
		entry.Info("camper registration continued")
	}
	return c, nil
}

// merge sets every supplied field on c. Acudiente fields only fill gaps.
func merge(c *models.Camper, changes, guardian map[string]any) {
	if v := text(changes, validation.KeyFirstNames, true); v != nil {
		c.FirstNames = v
	}
	if v := text(changes, validation.KeyLastNames, true); v != nil {
		c.LastNames = v
	}
	if v := text(changes, validation.KeyAddress, true); v != nil {
		c.Address = v
	}
	if v := text(changes, validation.KeyPhone, false); v != nil {
		c.Phone = v
	}
	if v := integer(changes, validation.KeyShift); v != nil {
		c.Shift = v
	}

	if c.Guardian.FirstNames == nil {
		c.Guardian.FirstNames = text(guardian, validation.KeyFirstNames, true)
	}
	if c.Guardian.LastNames == nil {
		c.Guardian.LastNames = text(guardian, validation.KeyLastNames, true)
	}
	if c.Guardian.Phone == nil {
		c.Guardian.Phone = text(guardian, validation.KeyPhone, false)
	}
}
