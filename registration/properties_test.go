package registration

import (
	"context"
	"sort"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"campuslands/models"
)

var (
	genNames    = rapid.StringMatching(`[a-zA-Zñáé]{1,8}( [a-zA-Z]{1,8})?`)
	genSurnames = rapid.StringMatching(`[a-zA-Z]{1,8} [a-zA-ZÑó]{1,8}`)
	genAddress  = rapid.StringMatching(`[A-Za-z0-9]{1,10}( [A-Za-z0-9#-]{1,6}){0,2}`)
	genPhone    = rapid.StringMatching(`3[0-9]{9}`)
)

func drawShift(t *rapid.T) json.Number {
	return json.Number(strconv.Itoa(rapid.IntRange(1, 4).Draw(t, "jornada")))
}

func drawFull(t *rapid.T) (map[string]any, map[string]any) {
	guardian := map[string]any{
		"nombres":   genNames.Draw(t, "acudiente.nombres"),
		"apellidos": genSurnames.Draw(t, "acudiente.apellidos"),
		"telefono":  genPhone.Draw(t, "acudiente.telefono"),
	}
	body := map[string]any{
		"nombres":   genNames.Draw(t, "nombres"),
		"apellidos": genSurnames.Draw(t, "apellidos"),
		"direccion": genAddress.Draw(t, "direccion"),
		"telefono":  genPhone.Draw(t, "telefono"),
		"jornada":   drawShift(t),
		"acudiente": guardian,
	}
	return body, guardian
}

// drawPartial removes at least one field, top-level or acudiente, from a full submission.
func drawPartial(t *rapid.T) map[string]any {
	body, guardian := drawFull(t)
	paths := []string{"nombres", "apellidos", "direccion", "telefono", "jornada",
		"acudiente.nombres", "acudiente.apellidos", "acudiente.telefono", "acudiente"}
	forced := rapid.SampledFrom(paths).Draw(t, "forced")

	for _, p := range paths {
		if p != forced && !rapid.Bool().Draw(t, "drop "+p) {
			continue
		}
		switch p {
		case "acudiente":
			delete(body, "acudiente")
		case "acudiente.nombres", "acudiente.apellidos", "acudiente.telefono":
			delete(guardian, p[len("acudiente."):])
		default:
			delete(body, p)
		}
	}
	return body
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestPropertyFullSubmissionEnrolls(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, _ := newEngine()
		body, _ := drawFull(t)

		c, err := e.Start(context.Background(), body)
		require.NoError(t, err)
		require.Equal(t, models.StatusEnrolled, c.Status)
	})
}

func TestPropertyPartialSubmissionStoresOnlySuppliedKeys(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, store := newEngine()
		body := drawPartial(t)

		c, err := e.Start(context.Background(), body)
		if len(body) == 0 {
			require.Equal(t, KindInsufficientData, KindOf(err))
			return
		}
		require.NoError(t, err)
		require.Equal(t, models.StatusPending, c.Status)

		stored, err := store.Get(context.Background(), c.ID)
		require.NoError(t, err)
		raw, err := json.Marshal(stored)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(raw, &doc))

		want := map[string]any{"id": nil, "estado": nil, "riesgo": nil, "acudiente": nil}
		for k := range body {
			want[k] = nil
		}
		require.Equal(t, sortedKeys(want), sortedKeys(doc))

		wantGuardian := map[string]any{}
		if g, ok := body["acudiente"].(map[string]any); ok {
			wantGuardian = g
		}
		require.Equal(t, sortedKeys(wantGuardian), sortedKeys(doc["acudiente"].(map[string]any)))
	})
}

func TestPropertyIDsAreGapFree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, _ := newEngine()
		n := rapid.IntRange(1, 20).Draw(t, "n")

		for want := 1; want <= n; want++ {
			c, err := e.Start(context.Background(), map[string]any{"telefono": genPhone.Draw(t, "telefono")})
			require.NoError(t, err)
			require.Equal(t, want, c.ID)
		}
	})
}

func TestPropertyContinueWithMissingFieldsEnrolls(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e, _ := newEngine()
		ctx := context.Background()
		full, fullGuardian := drawFull(t)
		body := drawPartial(t)
		if len(body) == 0 {
			return
		}

		c, err := e.Start(ctx, body)
		require.NoError(t, err)

		changes := map[string]any{"id": json.Number(strconv.Itoa(c.ID))}
		for k, v := range full {
			if _, ok := body[k]; !ok && k != "acudiente" {
				changes[k] = v
			}
		}
		supplied, _ := body["acudiente"].(map[string]any)
		missingGuardian := map[string]any{}
		for k, v := range fullGuardian {
			if _, ok := supplied[k]; !ok {
				missingGuardian[k] = v
			}
		}
		if len(missingGuardian) > 0 {
			changes["acudiente"] = missingGuardian
		}

		updated, err := e.Continue(ctx, changes)
		require.NoError(t, err)
		require.Equal(t, models.StatusEnrolled, updated.Status)

		got, err := e.Get(ctx, strconv.Itoa(c.ID))
		require.NoError(t, err)
		require.Equal(t, updated, got)
	})
}
