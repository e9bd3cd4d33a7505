package wizard

import (
	"fmt"
	"strings"

	"github.com/Windi-Fikriyansyah/showme/internal/models"
)

// Controller walks one draft through an ordered list of steps. It is not safe
// for concurrent use; callers that share a controller must serialise access.
type Controller struct {
	steps    []Step
	current  int
	draft    models.Draft
	policies map[FileSlot]UploadPolicy

	OnStepChange func(step int)
	OnComplete   func(d models.Draft)
}

// NewController starts at step 1. A nil steps list selects DefaultSteps; a nil
// initial draft starts from an empty one.
func NewController(steps []Step, initial *models.Draft) *Controller {
	if len(steps) == 0 {
		steps = DefaultSteps()
	}
	d := models.NewDraft()
	if initial != nil {
		d = initial.Clone()
	}
	return &Controller{
		steps:    steps,
		current:  1,
		draft:    d,
		policies: DefaultUploadPolicies(),
	}
}

// SetUploadPolicies replaces the per-slot upload limits.
func (c *Controller) SetUploadPolicies(p map[FileSlot]UploadPolicy) {
	c.policies = p
}

func (c *Controller) CurrentStep() int { return c.current }
func (c *Controller) TotalSteps() int  { return len(c.steps) }

// Step returns the definition of the current step.
func (c *Controller) Step() Step { return c.steps[c.current-1] }

// Draft returns a copy of the draft being edited.
func (c *Controller) Draft() models.Draft { return c.draft.Clone() }

// IsValid evaluates the rule of the given step. Steps outside the list are valid.
func (c *Controller) IsValid(step int) bool {
	if step < 1 || step > len(c.steps) {
		return true
	}
	rule := c.steps[step-1].Rule
	if rule == nil {
		return true
	}
	return rule(&c.draft)
}

// MissingFields lists the gating fields of the current step that still fail.
func (c *Controller) MissingFields() []string {
	if c.IsValid(c.current) {
		return []string{}
	}
	return append([]string{}, c.Step().Required...)
}

func (c *Controller) IsLast() bool { return c.current == len(c.steps) }

// Next advances one step when the current one is valid.
func (c *Controller) Next() bool {
	if c.current >= len(c.steps) || !c.IsValid(c.current) {
		return false
	}
	c.current++
	c.stepChanged()
	return true
}

// Prev goes back one step without checking validity.
func (c *Controller) Prev() bool {
	if c.current <= 1 {
		return false
	}
	c.current--
	c.stepChanged()
	return true
}

// Submit hands the draft to OnComplete. It is only available on the last step.
func (c *Controller) Submit() bool {
	if !c.IsLast() || !c.IsValid(c.current) {
		return false
	}
	if c.OnComplete != nil {
		c.OnComplete(c.draft.Clone())
	}
	return true
}

func (c *Controller) stepChanged() {
	if c.OnStepChange != nil {
		c.OnStepChange(c.current)
	}
}

// ========= field edits =========

func (c *Controller) SetPersonalField(f Field, value string) error {
	get, ok := personalFields[f]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	*get(&c.draft) = value
	return nil
}

func (c *Controller) SetLink(f LinkField, value string) error {
	get, ok := linkFields[f]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	*get(&c.draft.PortfolioLinks) = value
	return nil
}

func (c *Controller) SetBookingTimezone(tz string) {
	c.draft.BookingPreferences.Timezone = tz
}

func (c *Controller) ToggleSkill(skill string) {
	c.draft.Skills = toggle(c.draft.Skills, skill)
}

func (c *Controller) ToggleBookingPreference(cat PreferenceCategory, item string) error {
	get, ok := preferenceSets[cat]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	set := get(&c.draft.BookingPreferences)
	*set = toggle(*set, item)
	return nil
}

// SetFile attaches a file after checking the slot's upload policy. A rejected
// file leaves the draft untouched.
func (c *Controller) SetFile(slot FileSlot, f models.FileRef) error {
	get, ok := fileSlots[slot]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	if p, ok := c.policies[slot]; ok {
		if err := p.Check(f); err != nil {
			return err
		}
	}
	*get(&c.draft) = &f
	return nil
}

func (c *Controller) ClearFile(slot FileSlot) error {
	get, ok := fileSlots[slot]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	*get(&c.draft) = nil
	return nil
}

// ========= repeatable groups =========

func (c *Controller) AddItem(g Group) error {
	ops, ok := groups[g]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, g)
	}
	ops.add(&c.draft)
	return nil
}

// RemoveItem deletes by position; later items shift down by one.
func (c *Controller) RemoveItem(g Group, index int) error {
	ops, ok := groups[g]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, g)
	}
	if index < 0 || index >= ops.size(&c.draft) {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, g, index)
	}
	ops.remove(&c.draft, index)
	return nil
}

func (c *Controller) UpdateItem(g Group, index int, field, value string) error {
	ops, ok := groups[g]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, g)
	}
	get, ok := ops.fields[strings.TrimSpace(field)]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, g, field)
	}
	if index < 0 || index >= ops.size(&c.draft) {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, g, index)
	}
	*get(&c.draft, index) = value
	return nil
}
