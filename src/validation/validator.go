package validation

import (
	"context"
	"errors"
	"fmt"
	"foodievent/src/types"
	"reflect"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const MsgRequired = "This field is required."

// FieldErrors maps a field name to the single message shown for it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, f[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (f FieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

// Lookup answers the uniqueness questions. repository.Store satisfies it.
type Lookup interface {
	EmailTaken(ctx context.Context, email string) (bool, error)
	PhoneTaken(ctx context.Context, phone string) (bool, error)
	TitleTaken(ctx context.Context, title string, excludeID uint) (bool, error)
}

type Registration struct {
	FirstName string `json:"first_name" validate:"required,max=50,personname"`
	Surname   string `json:"surname" validate:"required,max=50,personname"`
	Email     string `json:"email" validate:"required,max=120,email,emaildomain"`
	Phone     string `json:"phone" validate:"required,auphone"`
	Address   string `json:"address" validate:"required,streetaddress"`
	Password  string `json:"password" validate:"required,passwordstrength,eqfield=Confirm"`
	Confirm   string `json:"confirm" validate:"required"`
}

type EventSubmission struct {
	Title           string              `json:"title" validate:"required,max=200"`
	Description     string              `json:"description" validate:"required"`
	StartTime       time.Time           `json:"start_time" validate:"required"`
	EndTime         time.Time           `json:"end_time" validate:"required,eventend"`
	Venue           string              `json:"venue" validate:"required,max=200,venue"`
	VendorNames     string              `json:"vendor_names" validate:"required,max=255,vendornames"`
	TotalTickets    int                 `json:"total_tickets" validate:"gt=0"`
	TicketPrice     decimal.Decimal     `json:"ticket_price" validate:"gte=0"`
	Category        types.EventCategory `json:"category" validate:"required,eventcategory"`
	FreeSampling    bool                `json:"free_sampling"`
	ProvideTakeaway bool                `json:"provide_takeaway"`
	// ImageName is the uploaded file name. Empty means no new upload.
	ImageName string `json:"image" validate:"omitempty,imagefile"`
}

func NormalizeRegistration(r Registration) Registration {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = DigitsOnly(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	return r
}

func NormalizeEventSubmission(s EventSubmission) EventSubmission {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Venue = strings.TrimSpace(s.Venue)
	s.VendorNames = strings.TrimSpace(s.VendorNames)
	s.Category = types.EventCategory(strings.TrimSpace(string(s.Category)))
	return s
}

type Validator struct {
	v      *validator.Validate
	lookup Lookup
}

func New(lookup Lookup) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	RegisterRules(v)
	return &Validator{v: v, lookup: lookup}
}

func stringRule(rule func(string) error) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return rule(fl.Field().String()) == nil
	}
}

func siblingString(fl validator.FieldLevel, name string) string {
	f := fl.Parent().FieldByName(name)
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}
	return f.String()
}

var passwordStrength validator.Func = func(fl validator.FieldLevel) bool {
	return PasswordStrength(
		fl.Field().String(),
		siblingString(fl, "FirstName"),
		siblingString(fl, "Surname"),
		siblingString(fl, "Email"),
	) == nil
}

var eventCategory validator.Func = func(fl validator.FieldLevel) bool {
	return slices.Contains(types.EventCategories(), types.EventCategory(fl.Field().String()))
}

var eventEnd validator.Func = func(fl validator.FieldLevel) bool {
	end, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	start, ok := fl.Parent().FieldByName("StartTime").Interface().(time.Time)
	if !ok {
		return false
	}
	return EventTimes(start, end) == nil
}

// RegisterRules installs the custom tags on v. It is also applied to gin's
// binding engine so request bodies can use the same tags.
func RegisterRules(v *validator.Validate) {
	v.RegisterValidation("personname", stringRule(NameLettersOnly))
	v.RegisterValidation("auphone", stringRule(AUPhone))
	v.RegisterValidation("streetaddress", stringRule(StreetAddress))
	v.RegisterValidation("emaildomain", stringRule(EmailDomain))
	v.RegisterValidation("venue", stringRule(Venue))
	v.RegisterValidation("vendornames", stringRule(VendorNames))
	v.RegisterValidation("imagefile", stringRule(ImageFile))
	v.RegisterValidation("passwordstrength", passwordStrength)
	v.RegisterValidation("eventend", eventEnd)
	v.RegisterValidation("eventcategory", eventCategory)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

func ruleMessage(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Message
	}
	return "Invalid value."
}

func (val *Validator) message(fe validator.FieldError, subject any) string {
	str, _ := fe.Value().(string)
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "email":
		return "Invalid email address."
	case "eqfield":
		return "Passwords should match"
	case "gt":
		return "Number must be at least 1."
	case "gte":
		return "Number must be at least 0."
	case "oneof", "eventcategory":
		return "Not a valid choice."
	case "personname":
		return ruleMessage(NameLettersOnly(str))
	case "auphone":
		return ruleMessage(AUPhone(str))
	case "streetaddress":
		return ruleMessage(StreetAddress(str))
	case "emaildomain":
		return ruleMessage(EmailDomain(str))
	case "venue":
		return ruleMessage(Venue(str))
	case "vendornames":
		return ruleMessage(VendorNames(str))
	case "imagefile":
		return ruleMessage(ImageFile(str))
	case "passwordstrength":
		if r, ok := subject.(Registration); ok {
			return ruleMessage(PasswordStrength(r.Password, r.FirstName, r.Surname, r.Email))
		}
	case "eventend":
		if s, ok := subject.(EventSubmission); ok {
			return ruleMessage(EventTimes(s.StartTime, s.EndTime))
		}
	}
	return "Invalid value."
}

func (val *Validator) check(subject any) (FieldErrors, error) {
	out := FieldErrors{}
	err := val.v.Struct(subject)
	if err == nil {
		return out, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	for _, fe := range verrs {
		out.add(fe.Field(), val.message(fe, subject))
	}
	return out, nil
}

// ValidateRegistration runs every registration rule. The input is expected to
// be normalized already. A nil error with an empty map means the form is valid.
func (val *Validator) ValidateRegistration(ctx context.Context, r Registration) (FieldErrors, error) {
	out, err := val.check(r)
	if err != nil {
		return nil, err
	}
	if _, failed := out["email"]; !failed {
		taken, err := val.lookup.EmailTaken(ctx, r.Email)
		if err != nil {
			return nil, fmt.Errorf("email lookup: %w", err)
		}
		if taken {
			out.add("email", MsgEmailTaken)
		}
	}
	if _, failed := out["phone"]; !failed {
		taken, err := val.lookup.PhoneTaken(ctx, r.Phone)
		if err != nil {
			return nil, fmt.Errorf("phone lookup: %w", err)
		}
		if taken {
			out.add("phone", MsgPhoneTaken)
		}
	}
	return out, nil
}

// ValidateEventSubmission runs every event rule. existingID is zero on create,
// which makes the image mandatory; on update the event's own title is not a
// duplicate of itself.
func (val *Validator) ValidateEventSubmission(ctx context.Context, s EventSubmission, existingID uint) (FieldErrors, error) {
	out, err := val.check(s)
	if err != nil {
		return nil, err
	}
	if _, failed := out["title"]; !failed {
		taken, err := val.lookup.TitleTaken(ctx, s.Title, existingID)
		if err != nil {
			return nil, fmt.Errorf("title lookup: %w", err)
		}
		if taken {
			out.add("title", MsgTitleTaken)
		}
	}
	if existingID == 0 && s.ImageName == "" {
		out.add("image", MsgImageRequired)
	}
	return out, nil
}
