package registration

import (
	"context"
	"strings"

	"campuslands/models"
	"campuslands/validation"
)

// Start creates a camper from a full or partial submission. The record is
// enrolled only when all six top-level fields and the three acudiente fields
// are supplied; otherwise it is left pending. Absent fields are not stored,
// except the acudiente which is always stored, empty if need be.
func (e *Engine) Start(ctx context.Context, submission map[string]any) (*models.Camper, error) {
	body := validation.Clean(submission)
	if len(body) == 0 {
		return nil, invalid(KindInsufficientData, "", "datos insuficientes en el cuerpo")
	}
	if !validation.OnlyAllowedKeys(body, validation.CamperKeys) {
		return nil, invalid(KindUnknownField, "",
			"claves no permitidas en el cuerpo: "+strings.Join(validation.UnknownKeys(body, validation.CamperKeys), ", "))
	}
	if err := e.checkFields(body); err != nil {
		return nil, err
	}

	guardian := map[string]any{}
	if raw, ok := body[validation.KeyGuardian]; ok {
		g, err := guardianObject(raw)
		if err != nil {
			return nil, err
		}
		if err := e.checkGuardian(g, validation.GuardianKeys); err != nil {
			return nil, err
		}
		guardian = g
	}

	c := &models.Camper{
		Status:     models.StatusPending,
		Risk:       models.RiskLow,
		FirstNames: text(body, validation.KeyFirstNames, true),
		LastNames:  text(body, validation.KeyLastNames, true),
		Address:    text(body, validation.KeyAddress, true),
		Phone:      text(body, validation.KeyPhone, false),
		Shift:      integer(body, validation.KeyShift),
		Guardian: models.Guardian{
			FirstNames: text(guardian, validation.KeyFirstNames, true),
			LastNames:  text(guardian, validation.KeyLastNames, true),
			Phone:      text(guardian, validation.KeyPhone, false),
		},
	}
	if c.Complete() {
		c.Status = models.StatusEnrolled
	}

	if err := e.store.Insert(ctx, c); err != nil {
		e.log.WithError(err).Error("insert camper")
		return nil, storeFailure(err)
	}

	e.log.WithField("camper_id", c.ID).WithField("estado", c.Status).Info("camper registration started")
	return c, nil
}
