package models

// Status is the registration state of a camper.
type Status string

const (
	StatusPending  Status = "En proceso de ingreso"
	StatusEnrolled Status = "Inscrito"
)

// Risk is the academic risk level of a camper. Registration always starts at RiskLow.
type Risk string

const (
	RiskLow    Risk = "Bajo"
	RiskMedium Risk = "Medio"
	RiskHigh   Risk = "Alto"
)

// Guardian holds the acudiente data. Fields are pointers so an absent
// value is omitted from the stored document instead of written empty.
type Guardian struct {
	FirstNames *string `json:"nombres,omitempty"`
	LastNames  *string `json:"apellidos,omitempty"`
	Phone      *string `json:"telefono,omitempty"`
}

// Complete reports whether all three guardian fields are present.
func (g Guardian) Complete() bool {
	return g.FirstNames != nil && g.LastNames != nil && g.Phone != nil
}

// Keys returns the wire keys present on the guardian.
func (g Guardian) Keys() []string {
	var keys []string
	if g.FirstNames != nil {
		keys = append(keys, "nombres")
	}
	if g.LastNames != nil {
		keys = append(keys, "apellidos")
	}
	if g.Phone != nil {
		keys = append(keys, "telefono")
	}
	return keys
}

type Camper struct {
	ID         int      `json:"id"`
	Status     Status   `json:"estado"`
	Risk       Risk     `json:"riesgo"`
	FirstNames *string  `json:"nombres,omitempty"`
	LastNames  *string  `json:"apellidos,omitempty"`
	Address    *string  `json:"direccion,omitempty"`
	Phone      *string  `json:"telefono,omitempty"`
	Guardian   Guardian `json:"acudiente"`
	Shift      *int     `json:"jornada,omitempty"`

	// Version is bumped on every replace and used for compare-and-swap.
	Version int `json:"-"`
}

// Keys returns the top-level wire keys present on the camper. The guardian
// key is always present since the sub-object is always stored.
func (c Camper) Keys() []string {
	var keys []string
	if c.FirstNames != nil {
		keys = append(keys, "nombres")
	}
	if c.LastNames != nil {
		keys = append(keys, "apellidos")
	}
	if c.Address != nil {
		keys = append(keys, "direccion")
	}
	if c.Phone != nil {
		keys = append(keys, "telefono")
	}
	keys = append(keys, "acudiente")
	if c.Shift != nil {
		keys = append(keys, "jornada")
	}
	return keys
}

// Complete reports whether every registration field, guardian included, is present.
func (c Camper) Complete() bool {
	return c.FirstNames != nil &&
		c.LastNames != nil &&
		c.Address != nil &&
		c.Phone != nil &&
		c.Shift != nil &&
		c.Guardian.Complete()
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (c Camper) Clone() Camper {
	out := c
	out.FirstNames = cloneString(c.FirstNames)
	out.LastNames = cloneString(c.LastNames)
	out.Address = cloneString(c.Address)
	out.Phone = cloneString(c.Phone)
	if c.Shift != nil {
		shift := *c.Shift
		out.Shift = &shift
	}
	out.Guardian = Guardian{
		FirstNames: cloneString(c.Guardian.FirstNames),
		LastNames:  cloneString(c.Guardian.LastNames),
		Phone:      cloneString(c.Guardian.Phone),
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
