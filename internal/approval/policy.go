package approval

import (
	"fmt"
	"slices"
	"strings"
)

// Field names a listing attribute an owner can propose a value for.
type Field string

const (
	FieldTitle         Field = "title"
	FieldOverview      Field = "overview"
	FieldOverviewShort Field = "overview_short"
	FieldCover         Field = "cover"
	FieldVideo         Field = "video"
	FieldPrice         Field = "price"
	FieldLive          Field = "live"
)

// DefaultGatedFields are the listing fields whose change must be reviewed by an
// admin. Price and live visibility are deliberately absent.
var DefaultGatedFields = []Field{
	FieldTitle,
	FieldOverview,
	FieldOverviewShort,
	FieldCover,
	FieldVideo,
}

// Policy decides whether a proposed change needs admin sign-off.
type Policy struct {
	gated map[Field]struct{}
}

func NewPolicy(gated ...Field) *Policy {
	p := &Policy{gated: make(map[Field]struct{}, len(gated))}
	for _, f := range gated {
		p.gated[f] = struct{}{}
	}
	return p
}

func DefaultPolicy() *Policy {
	return NewPolicy(DefaultGatedFields...)
}

func (p *Policy) IsGated(f Field) bool {
	_, ok := p.gated[f]
	return ok
}

// RequiresApproval is true when any of the touched fields is gated. A field
// counts as touched when it is present in the request, even if its value is
// unchanged.
func (p *Policy) RequiresApproval(changes []Field) bool {
	for _, f := range changes {
		if p.IsGated(f) {
			return true
		}
	}
	return false
}

// Partition splits a proposal into the values that apply immediately and the
// values that must wait for review.
func (p *Policy) Partition(f Fields) (direct, gated Fields) {
	direct = f.pick(func(field Field) bool { return !p.IsGated(field) })
	gated = f.pick(p.IsGated)
	return direct, gated
}

var knownFields = []Field{
	FieldTitle, FieldOverview, FieldOverviewShort, FieldCover, FieldVideo, FieldPrice, FieldLive,
}

// ParseFields validates configured field names.
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		f := Field(strings.TrimSpace(name))
		if !slices.Contains(knownFields, f) {
			return nil, fmt.Errorf("unknown listing field %q", name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}
