// Package validation holds the field rules applied to registration and event
// submissions before anything is persisted.
//
// Every rule is a plain function returning nil or a *RuleError carrying the
// message shown next to the field. The same rules are registered as
// go-playground/validator tags by RegisterRules.
package validation

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type RuleError struct {
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func fail(msg string) error {
	return &RuleError{Message: msg}
}

const (
	MsgLettersOnly      = "Letters only (A–Z)."
	MsgPasswordLength   = "Password must be at least 8 characters long."
	MsgPasswordClasses  = "Use at least three of: lowercase, uppercase, digit, symbol."
	MsgPasswordPersonal = "Password must not contain your name or email."
	MsgPhoneDigits      = "Enter a valid 10-digit mobile number."
	MsgPhonePrefix      = "Mobile numbers must start with 04 and be 10 digits (e.g., 04XXXXXXXX)."
	MsgPhoneTaken       = "This mobile number is already registered."
	MsgAddressLength    = "Enter a valid street address."
	MsgAddressFormat    = "Enter a street number, name and suffix (e.g., '12 King St', '5/23 O’Connell Rd', '44-46 Main Road')."
	MsgEmailDomain      = "Please enter an email with a common domain ending (e.g., .com, .org, .com.au)."
	MsgEmailTaken       = "An account already exists with this email."
	MsgVenueFormat      = "Use format like 'Town Hall, Sydney' or 'Convention Centre, South Brisbane'."
	MsgVenueLetters     = "The venue name must include letters (e.g., 'Town Hall')."
	MsgVenueCity        = "End with a suburb/city (letters & spaces only), e.g., 'South Brisbane'."
	MsgVendorChars      = "Vendor names may include letters, spaces, commas, '&', apostrophes and hyphens only."
	MsgVendorLength     = "Each vendor name must include at least 4 letters (e.g., 'Alice', 'Bob Jones')."
	MsgTitleTaken       = "An event with this title already exists. Please choose a different title."
	MsgEndAfterStart    = "End time must be after the start time."
	MsgMinDuration      = "Event duration must be at least 1 hour."
	MsgImageRequired    = "Please upload a Destination Image"
	MsgImageType        = "Only supports png, jpg, JPG, PNG"
)

var (
	lettersOnlyRe = regexp.MustCompile(`^[A-Za-z]+$`)
	auMobileRe    = regexp.MustCompile(`^04\d{8}$`)
	streetRe      = regexp.MustCompile(`(?i)^(?:\d{1,4}(?:-\d{1,4})?/)?\d{1,5}\s+[A-Za-z][A-Za-z\s'’.\-]{2,}(?:\s+(?:St|Street|Rd|Road|Ave|Avenue|Blvd|Dr|Drive|Ct|Court|Pl|Place|Cres|Crescent|Hwy|Highway))$`)
	cityRe        = regexp.MustCompile(`^[A-Za-z]+(?:\s+[A-Za-z]+){0,5}$`)
	vendorCharsRe = regexp.MustCompile(`^[A-Za-z\s,&'’\-]+$`)
	vendorSplitRe = regexp.MustCompile(`[,&]`)

	lowerRe  = regexp.MustCompile(`[a-z]`)
	upperRe  = regexp.MustCompile(`[A-Z]`)
	digitRe  = regexp.MustCompile(`\d`)
	symbolRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// CommonTLDs are the domain endings accepted for registration emails.
var CommonTLDs = map[string]struct{}{
	"com": {}, "net": {}, "org": {}, "edu": {}, "gov": {}, "io": {}, "me": {},
	"ai": {}, "dev": {}, "co": {}, "uk": {}, "au": {}, "nz": {}, "ca": {},
	"us": {}, "de": {}, "fr": {}, "sg": {}, "jp": {},
	"com.au": {}, "net.au": {}, "org.au": {}, "edu.au": {}, "gov.au": {},
}

var allowedImageExt = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "PNG": {}, "JPG": {}, "JPEG": {},
}

// NameLettersOnly accepts A–Z only. Empty input is left to the required check.
func NameLettersOnly(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if !lettersOnlyRe.MatchString(v) {
		return fail(MsgLettersOnly)
	}
	return nil
}

// PasswordStrength checks length, character variety, and that none of the
// personal tokens (names, email local-part) appear in the password.
func PasswordStrength(pwd string, firstName, surname, email string) error {
	if utf8.RuneCountInString(pwd) < 8 {
		return fail(MsgPasswordLength)
	}
	classes := 0
	for _, re := range []*regexp.Regexp{lowerRe, upperRe, digitRe, symbolRe} {
		if re.MatchString(pwd) {
			classes++
		}
	}
	if classes < 3 {
		return fail(MsgPasswordClasses)
	}
	local, _, _ := strings.Cut(email, "@")
	lowered := strings.ToLower(pwd)
	for _, token := range []string{firstName, surname, local} {
		token = strings.ToLower(strings.TrimSpace(token))
		if len(token) >= 3 && strings.Contains(lowered, token) {
			return fail(MsgPasswordPersonal)
		}
	}
	return nil
}

func DigitsOnly(v string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, v)
}

func AUPhone(v string) error {
	digits := DigitsOnly(v)
	if len(digits) != 10 {
		return fail(MsgPhoneDigits)
	}
	if !auMobileRe.MatchString(digits) {
		return fail(MsgPhonePrefix)
	}
	return nil
}

func StreetAddress(v string) error {
	v = strings.TrimSpace(v)
	if n := utf8.RuneCountInString(v); n < 8 || n > 120 {
		return fail(MsgAddressLength)
	}
	if !streetRe.MatchString(v) {
		return fail(MsgAddressFormat)
	}
	return nil
}

// EmailDomain passes when the last label, or the last two labels, of the
// domain are in CommonTLDs.
func EmailDomain(v string) error {
	_, domain, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "@")
	if !ok || domain == "" {
		return fail(MsgEmailDomain)
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return fail(MsgEmailDomain)
	}
	if _, ok := CommonTLDs[labels[len(labels)-1]]; ok {
		return nil
	}
	lastTwo := strings.Join(labels[len(labels)-2:], ".")
	if _, ok := CommonTLDs[lastTwo]; ok {
		return nil
	}
	return fail(MsgEmailDomain)
}

// Venue expects "<venue name>, <suburb or city>".
func Venue(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return fail(MsgVenueFormat)
	}
	name, city := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if name == "" || city == "" {
		return fail(MsgVenueFormat)
	}
	if strings.IndexFunc(name, isASCIILetter) < 0 {
		return fail(MsgVenueLetters)
	}
	if !cityRe.MatchString(city) {
		return fail(MsgVenueCity)
	}
	return nil
}

func VendorNames(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if !vendorCharsRe.MatchString(v) {
		return fail(MsgVendorChars)
	}
	for _, part := range vendorSplitRe.Split(v, -1) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		letters := 0
		for _, r := range part {
			if isASCIILetter(r) {
				letters++
			}
		}
		if letters < 4 {
			return fail(MsgVendorLength)
		}
	}
	return nil
}

func EventTimes(start, end time.Time) error {
	if !end.After(start) {
		return fail(MsgEndAfterStart)
	}
	if end.Sub(start) < time.Hour {
		return fail(MsgMinDuration)
	}
	return nil
}

// ImageFile checks the extension of an uploaded file name.
func ImageFile(name string) error {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if _, ok := allowedImageExt[ext]; !ok {
		return fail(MsgImageType)
	}
	return nil
}

func isASCIILetter(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}
